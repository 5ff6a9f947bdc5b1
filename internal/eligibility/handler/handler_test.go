package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/GGamerE/SecureKYC/internal/eligibility"
	"github.com/GGamerE/SecureKYC/internal/eligibility/handler/mocks"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/eligibility-mocks.go -package=mocks Service

type EligibilityHandlerSuite struct {
	suite.Suite
}

func TestEligibilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(EligibilityHandlerSuite))
}

func (s *EligibilityHandlerSuite) newRouter() (chi.Router, *mocks.MockService) {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func (s *EligibilityHandlerSuite) TestHandleEvaluate() {
	project := testutil.TestPrincipals.Project
	alice := testutil.TestPrincipals.Alice
	projectID := id.ProjectID("launchpad-alpha")
	path := "/projects/launchpad-alpha/subjects/" + alice.String() + "/eligibility"

	s.Run("returns the verdict handle on success", func() {
		router, mockService := s.newRouter()
		mockService.EXPECT().
			Evaluate(gomock.Any(), alice, projectID, project).
			Return(fhe.Handle("ct_verdict"), nil)

		req := testutil.WithCaller(testutil.NewRequest(s.T(), http.MethodPost, path), project)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EvaluateResponse](s.T(), rr)
		s.Equal(fhe.Handle("ct_verdict"), resp.Ciphertext)
		s.Equal(projectID, resp.ProjectID)
	})

	s.Run("maps precondition failures to 412", func() {
		router, mockService := s.newRouter()
		mockService.EXPECT().
			Evaluate(gomock.Any(), alice, projectID, project).
			Return(fhe.Handle(""), dErrors.New(dErrors.CodeUserNotVerified, "subject has not been attested"))

		req := testutil.WithCaller(testutil.NewRequest(s.T(), http.MethodPost, path), project)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusPreconditionFailed, string(dErrors.CodeUserNotVerified))
	})

	s.Run("rejects a malformed subject principal", func() {
		router, _ := s.newRouter()
		req := testutil.WithCaller(
			testutil.NewRequest(s.T(), http.MethodPost, "/projects/launchpad-alpha/subjects/garbage/eligibility"),
			project,
		)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("rejects an unauthenticated request", func() {
		router, _ := s.newRouter()
		req := testutil.NewRequest(s.T(), http.MethodPost, path)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	})
}

func (s *EligibilityHandlerSuite) TestHandleResult() {
	project := testutil.TestPrincipals.Project
	alice := testutil.TestPrincipals.Alice
	projectID := id.ProjectID("launchpad-alpha")
	path := "/projects/launchpad-alpha/subjects/" + alice.String() + "/eligibility"

	s.Run("returns the stored result", func() {
		router, mockService := s.newRouter()
		evaluatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		mockService.EXPECT().
			ResultOf(gomock.Any(), projectID, alice).
			Return(eligibility.Result{
				ProjectID:   projectID,
				Subject:     alice,
				Ciphertext:  fhe.Handle("ct_cached"),
				EvaluatedAt: evaluatedAt,
			}, nil)

		req := testutil.WithCaller(testutil.NewRequest(s.T(), http.MethodGet, path), project)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[ResultResponse](s.T(), rr)
		s.Equal(fhe.Handle("ct_cached"), resp.Ciphertext)
		s.True(evaluatedAt.Equal(resp.EvaluatedAt))
	})

	s.Run("maps a missing result to 404", func() {
		router, mockService := s.newRouter()
		mockService.EXPECT().
			ResultOf(gomock.Any(), projectID, alice).
			Return(eligibility.Result{}, dErrors.New(dErrors.CodeNotFound, "no result"))

		req := testutil.WithCaller(testutil.NewRequest(s.T(), http.MethodGet, path), project)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})
}
