package email

import (
	"context"
	"strings"
	"testing"

	"hrms/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	if _, ok := mailer.(noopMailer); !ok {
		t.Fatalf("New returned %T, want noopMailer", mailer)
	}
	if err := mailer.Send(context.Background(), "a@example.com", "b@example.com", "s", "b"); err != nil {
		t.Fatalf("noop Send: %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("payroll@example.com", "emp@example.com", "Your payslip", "Net pay: 48800.00"))
	if !strings.HasPrefix(msg, "From: payroll@example.com\r\nTo: emp@example.com\r\nSubject: Your payslip\r\n") {
		t.Fatalf("unexpected headers: %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nNet pay: 48800.00") {
		t.Fatalf("unexpected body: %q", msg)
	}
}
