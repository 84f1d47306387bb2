package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of actor roles. Values match the users.role check
// constraint.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RolePayroll  Role = "PAYROLL"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

var Roles = []Role{RoleAdmin, RoleHR, RolePayroll, RoleManager, RoleEmployee}

func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(raw)))
	for _, role := range Roles {
		if role == candidate {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

type Permission string

const (
	PermEmployeesRead     Permission = "core.employees.read"
	PermEmployeesWrite    Permission = "core.employees.write"
	PermLeaveRead         Permission = "leave.read"
	PermLeaveWrite        Permission = "leave.write"
	PermLeaveApprove      Permission = "leave.approve"
	PermAttendanceRead    Permission = "attendance.read"
	PermAttendanceWrite   Permission = "attendance.write"
	PermAttendanceManage  Permission = "attendance.manage"
	PermPayrollRead       Permission = "payroll.read"
	PermPayrollRun        Permission = "payroll.run"
	PermPayrollFinalize   Permission = "payroll.finalize"
	PermNotificationsRead Permission = "notifications.read"
	PermAuditRead         Permission = "audit.read"
)

var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermEmployeesRead, PermEmployeesWrite,
		PermLeaveRead, PermLeaveWrite, PermLeaveApprove,
		PermAttendanceRead, PermAttendanceWrite, PermAttendanceManage,
		PermPayrollRead, PermPayrollRun, PermPayrollFinalize,
		PermNotificationsRead, PermAuditRead,
	},
	RoleHR: {
		PermEmployeesRead, PermEmployeesWrite,
		PermLeaveRead, PermLeaveWrite, PermLeaveApprove,
		PermAttendanceRead, PermAttendanceWrite, PermAttendanceManage,
		PermNotificationsRead, PermAuditRead,
	},
	RolePayroll: {
		PermEmployeesRead,
		PermLeaveRead,
		PermAttendanceRead,
		PermPayrollRead, PermPayrollRun, PermPayrollFinalize,
		PermNotificationsRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermLeaveRead, PermLeaveWrite, PermLeaveApprove,
		PermAttendanceRead, PermAttendanceWrite,
		PermNotificationsRead,
	},
	RoleEmployee: {
		PermLeaveRead, PermLeaveWrite,
		PermAttendanceRead, PermAttendanceWrite,
		PermNotificationsRead,
	},
}

// Can reports whether the role's permission set includes p. Unknown roles
// hold nothing.
func (r Role) Can(p Permission) bool {
	for _, granted := range RolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// UserContext is the authenticated actor attached to a request.
type UserContext struct {
	UserID string
	Role   Role
}
