package notifications

const (
	TypePayslipPublished = "payslip_published"
	TypeLeaveDecided     = "leave_decided"
)
