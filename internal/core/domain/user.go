package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "profesor"
	RoleStudent   Role = "estudiante"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"nombre"`
	Email               string     `json:"correo"`
	Role                Role       `json:"rol"`
	PasswordHash        string     `json:"-"`
	IsActive            bool       `json:"is_active"`
	ResetToken          *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// UserSummary is the public projection used when users are embedded in
// other payloads (professor of a class, student of an enrollment).
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"correo"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
