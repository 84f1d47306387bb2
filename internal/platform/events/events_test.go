package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestPublishPayslipGenerated(t *testing.T) {
	writer := &captureWriter{}
	pub := NewKafkaPublisher(writer, "hrms.payroll.payslip.generated.v1")

	err := pub.PublishPayslipGenerated(context.Background(), PayslipGenerated{
		PayrunID: "run-1", PayslipID: "slip-1", EmployeeID: "emp-1", EmployeeCode: "EMP001", Net: 48800,
	})
	require.NoError(t, err)
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	assert.Equal(t, "hrms.payroll.payslip.generated.v1", msg.Topic)
	assert.Equal(t, []byte("emp-1"), msg.Key)
	assert.Equal(t, TypePayslipGenerated, string(msg.Headers[0].Value))

	var decoded PayslipGenerated
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.NotEmpty(t, decoded.EventID)
	assert.False(t, decoded.OccurredAt.IsZero())
	assert.Equal(t, 48800.0, decoded.Net)
}
