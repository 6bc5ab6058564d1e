package entity

import (
	"time"
)

// Role is the account type of a user. Any value outside the set below is
// rejected at the service layer rather than by a database constraint.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User is the sole persisted aggregate. Password holds the bcrypt hash,
// never the plaintext; Phone is nil when the caller did not supply one.
type User struct {
	ID        string
	Email     string
	Password  string
	Phone     *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
