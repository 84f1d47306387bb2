package attendance

import "time"

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusLeave   Status = "LEAVE"
	StatusHoliday Status = "HOLIDAY"
)

type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       time.Time  `json:"date"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	TotalHours *float64   `json:"totalHours,omitempty"`
	Status     Status     `json:"status"`
}

type ListFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
