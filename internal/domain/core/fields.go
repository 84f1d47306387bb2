package core

import "hrms/internal/domain/auth"

// FilterEmployeeFields hides compensation and bank details from actors that
// neither manage payroll nor own the record.
func FilterEmployeeFields(emp *Employee, user auth.UserContext) {
	switch user.Role {
	case auth.RoleAdmin, auth.RoleHR, auth.RolePayroll:
		return
	}
	if emp.UserID == user.UserID {
		return
	}
	emp.BaseSalary = 0
	emp.Allowances = 0
	emp.BankDetails = ""
}
