package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/pkg/auth"
)

func claimsFor(id int64, role model.Role) *auth.Claims {
	return &auth.Claims{SubjectID: id, Role: role}
}

func TestRoleCapabilities(t *testing.T) {
	admin := claimsFor(1, model.RoleAdmin)
	doctor := claimsFor(2, model.RoleDoctor)
	patient := claimsFor(3, model.RolePatient)

	assert.True(t, IsAdmin(admin))
	assert.False(t, IsAdmin(doctor))
	assert.False(t, IsAdmin(nil))

	assert.True(t, IsDoctorOrAdmin(admin))
	assert.True(t, IsDoctorOrAdmin(doctor))
	assert.False(t, IsDoctorOrAdmin(patient))

	assert.True(t, Any(patient))
	assert.False(t, Any(nil))
}

func TestCanViewAppointment(t *testing.T) {
	apt := &model.Appointment{ID: 10, DoctorID: 2, PatientID: 3}

	assert.True(t, CanViewAppointment(claimsFor(1, model.RoleAdmin), apt))
	assert.True(t, CanViewAppointment(claimsFor(2, model.RoleDoctor), apt))
	assert.True(t, CanViewAppointment(claimsFor(3, model.RolePatient), apt))

	assert.False(t, CanViewAppointment(claimsFor(9, model.RoleDoctor), apt))
	assert.False(t, CanViewAppointment(claimsFor(9, model.RolePatient), apt))
	assert.False(t, CanViewAppointment(nil, apt))
}

func TestCanTransitionAppointment(t *testing.T) {
	apt := &model.Appointment{ID: 10, DoctorID: 2, PatientID: 3}

	assert.True(t, CanTransitionAppointment(claimsFor(1, model.RoleAdmin), apt))
	assert.True(t, CanTransitionAppointment(claimsFor(2, model.RoleDoctor), apt))

	// Another doctor, the owning patient, and an anonymous caller are all denied.
	assert.False(t, CanTransitionAppointment(claimsFor(9, model.RoleDoctor), apt))
	assert.False(t, CanTransitionAppointment(claimsFor(3, model.RolePatient), apt))
	assert.False(t, CanTransitionAppointment(nil, apt))
}

func TestCanViewPatientHistory(t *testing.T) {
	assert.True(t, CanViewPatientHistory(claimsFor(3, model.RolePatient), 3))
	assert.False(t, CanViewPatientHistory(claimsFor(4, model.RolePatient), 3))

	assert.True(t, CanViewPatientHistory(claimsFor(2, model.RoleDoctor), 3))
	assert.True(t, CanViewPatientHistory(claimsFor(1, model.RoleAdmin), 3))
	assert.False(t, CanViewPatientHistory(nil, 3))
}

func TestCanSeePatientIdentity(t *testing.T) {
	assert.True(t, CanSeePatientIdentity(claimsFor(1, model.RoleAdmin)))
	assert.True(t, CanSeePatientIdentity(claimsFor(2, model.RoleDoctor)))
	assert.False(t, CanSeePatientIdentity(claimsFor(3, model.RolePatient)))
	assert.False(t, CanSeePatientIdentity(nil))
}
