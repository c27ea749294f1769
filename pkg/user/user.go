package user

import "time"

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	Id       int
	Uid      string
	Email    string
	Name     string
	Role     Role
	PhotoUrl string
}

// IsPrivileged reports whether the user may approve completed tasks and
// trigger monetary postings.
func (u User) IsPrivileged() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

// Session is a server-side login session. Tokens are opaque and revocable.
type Session struct {
	Token     string
	UserId    int
	CreatedAt time.Time
}

// RegistrationCode gates self-service sign-up.
type RegistrationCode struct {
	Code     string
	IsActive bool
}
