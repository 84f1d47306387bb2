package payroll

const (
	StatusDraft     = "DRAFT"
	StatusFinalized = "FINALIZED"

	// FallbackWorkingDays stands in for a standard month whenever a range
	// holds no weekdays, so daily-rate division never sees zero.
	FallbackWorkingDays = 22

	PFEmployeeRate        = "0.12"
	ProfessionalTaxAmount = 200

	payslipRenderConcurrency = 4
	dateLayout               = "2006-01-02"
)
