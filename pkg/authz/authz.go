// Package authz implements the capability model: each protected operation
// declares a Capability predicate over the caller's claims, and ownership
// rules that also depend on the resource are layered on top.
package authz

import (
	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/pkg/auth"
)

// Capability is a predicate from claims to allow/deny.
type Capability func(*auth.Claims) bool

func hasRole(role model.Role) Capability {
	return func(c *auth.Claims) bool {
		return c != nil && c.Role == role
	}
}

// AnyOf allows when any of the given capabilities allows.
func AnyOf(caps ...Capability) Capability {
	return func(c *auth.Claims) bool {
		for _, cap := range caps {
			if cap(c) {
				return true
			}
		}
		return false
	}
}

var (
	IsAdmin   = hasRole(model.RoleAdmin)
	IsDoctor  = hasRole(model.RoleDoctor)
	IsPatient = hasRole(model.RolePatient)

	IsDoctorOrAdmin = AnyOf(IsDoctor, IsAdmin)

	// Any allows every authenticated caller.
	Any Capability = func(c *auth.Claims) bool { return c != nil }
)

// CanViewAppointment: admin always; doctor and patient only their own.
func CanViewAppointment(c *auth.Claims, apt *model.Appointment) bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case model.RoleAdmin:
		return true
	case model.RoleDoctor:
		return c.SubjectID == apt.DoctorID
	case model.RolePatient:
		return c.SubjectID == apt.PatientID
	}
	return false
}

// CanTransitionAppointment: admin always; the owning doctor; nobody else.
// Governs cancel and done alike.
func CanTransitionAppointment(c *auth.Claims, apt *model.Appointment) bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case model.RoleAdmin:
		return true
	case model.RoleDoctor:
		return c.SubjectID == apt.DoctorID
	}
	return false
}

// CanViewPatientHistory: the patient themself, or any non-patient role.
func CanViewPatientHistory(c *auth.Claims, patientID int64) bool {
	if c == nil {
		return false
	}
	if c.Role != model.RolePatient {
		return true
	}
	return c.SubjectID == patientID
}

// CanSeePatientIdentity: patient_id in slot listings is visible to doctors
// and admins only.
func CanSeePatientIdentity(c *auth.Claims) bool {
	return IsDoctorOrAdmin(c)
}
