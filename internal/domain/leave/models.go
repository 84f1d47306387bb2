package leave

import "time"

type Type string

const (
	TypeSick      Type = "SICK"
	TypeCasual    Type = "CASUAL"
	TypeAnnual    Type = "ANNUAL"
	TypeUnpaid    Type = "UNPAID"
	TypeMaternity Type = "MATERNITY"
	TypePaternity Type = "PATERNITY"
)

var Types = []Type{TypeSick, TypeCasual, TypeAnnual, TypeUnpaid, TypeMaternity, TypePaternity}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type TimeOff struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	From       time.Time  `json:"from"`
	To         time.Time  `json:"to"`
	Type       Type       `json:"leaveType"`
	Reason     string     `json:"reason"`
	Status     Status     `json:"status"`
	ApproverID string     `json:"approverId,omitempty"`
	DecidedAt  *time.Time `json:"decidedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Request struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Type       Type
	Reason     string
}

type ListFilter struct {
	EmployeeID string
	Status     Status
	Limit      int
	Offset     int
}
