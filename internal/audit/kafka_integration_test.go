//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/platform/kafka/producer"
	"github.com/GGamerE/SecureKYC/pkg/testutil"
	"github.com/GGamerE/SecureKYC/pkg/testutil/containers"
)

const auditTopic = "securekyc.audit.events"

type KafkaPublisherSuite struct {
	suite.Suite
	kafka     *containers.KafkaContainer
	producer  *producer.Producer
	publisher *audit.KafkaPublisher
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	ctx := context.Background()
	s.kafka = containers.GetManager().GetKafka(s.T())
	s.Require().NoError(s.kafka.CreateTopic(ctx, auditTopic, 1, 1))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, logger)
	s.Require().NoError(err)
	s.producer = p
	s.publisher = audit.NewKafkaPublisher(p, auditTopic)
}

func (s *KafkaPublisherSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *KafkaPublisherSuite) TestEmit() {
	ctx := context.Background()
	alice := testutil.TestPrincipals.Alice
	verifier := testutil.TestPrincipals.Verifier

	s.Run("delivers the event keyed by subject", func() {
		event := audit.Event{
			Action:    audit.ActionRecordAttested,
			Actor:     verifier,
			Subject:   alice,
			RequestID: "req-attest-1",
		}
		s.Require().NoError(s.publisher.Emit(ctx, event))

		record := s.waitFor("attested", func(r *kgo.Record) bool {
			return string(r.Key) == alice.String() && headerValue(r, "action") == string(audit.ActionRecordAttested)
		})

		var got audit.Event
		s.Require().NoError(json.Unmarshal(record.Value, &got))
		s.Equal(audit.ActionRecordAttested, got.Action)
		s.Equal(verifier, got.Actor)
		s.Equal(alice, got.Subject)
		s.Equal("req-attest-1", got.RequestID)
		s.False(got.Timestamp.IsZero())
	})

	s.Run("falls back to the actor key when there is no subject", func() {
		event := audit.Event{
			Action: audit.ActionVerifierEnabled,
			Actor:  verifier,
		}
		s.Require().NoError(s.publisher.Emit(ctx, event))

		record := s.waitFor("enabled", func(r *kgo.Record) bool {
			return headerValue(r, "action") == string(audit.ActionVerifierEnabled)
		})
		s.Equal(verifier.String(), string(record.Key))
	})
}

func (s *KafkaPublisherSuite) waitFor(group string, match func(*kgo.Record) bool) *kgo.Record {
	s.T().Helper()
	ctx := context.Background()

	consumer, err := s.kafka.NewConsumer(ctx, "audit-test-"+group, auditTopic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForMessage(ctx, consumer, 30*time.Second, match)
	s.Require().NotNil(record, "expected a matching audit event on %s", auditTopic)
	return record
}

func headerValue(r *kgo.Record, key string) string {
	for _, h := range r.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
