package model

import "time"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Account is a registered user. Role is immutable after creation and
// accounts are never deleted.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DoctorProfile is the role-specific row owned 1:1 by a doctor account.
type DoctorProfile struct {
	AccountID int64  `db:"account_id" json:"account_id"`
	Specialty string `db:"specialty" json:"specialty"`
	Details   string `db:"details" json:"details"`
}

// DoctorInfo is the public directory view of a doctor.
type DoctorInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Details   string `json:"details"`
}

type RegisterRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      Role   `json:"role" binding:"required,oneof=patient doctor admin"`
	Specialty string `json:"specialty" binding:"max=200"`
	Details   string `json:"details" binding:"max=2000"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
