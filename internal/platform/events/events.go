// Package events publishes payroll domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TypePayslipGenerated = "payroll.payslip.generated"

type PayslipGenerated struct {
	EventID      string    `json:"eventId"`
	PayrunID     string    `json:"payrunId"`
	PayslipID    string    `json:"payslipId"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeCode string    `json:"employeeCode"`
	PeriodStart  string    `json:"periodStart"`
	PeriodEnd    string    `json:"periodEnd"`
	Net          float64   `json:"net"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type Publisher interface {
	PublishPayslipGenerated(ctx context.Context, event PayslipGenerated) error
}

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type noopPublisher struct{}

func (noopPublisher) PublishPayslipGenerated(context.Context, PayslipGenerated) error {
	return nil
}

func NewNoop() Publisher {
	return noopPublisher{}
}

type kafkaPublisher struct {
	writer MessageWriter
	topic  string
}

func NewKafkaPublisher(writer MessageWriter, topic string) Publisher {
	return &kafkaPublisher{writer: writer, topic: topic}
}

// NewWriter builds a writer keyed by message key so every event for one
// employee lands on the same partition.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
}

func (p *kafkaPublisher) PublishPayslipGenerated(ctx context.Context, event PayslipGenerated) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.EmployeeID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(TypePayslipGenerated)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	})
}
