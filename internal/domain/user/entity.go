package user

import "time"

type Role string

const (
	RoleAdmin      Role = "Admin"      // Studio owner/administrator - full access
	RoleInstructor Role = "Instructor" // Marks visits and sells memberships
	RoleUser       Role = "User"       // Read-only front desk access
)

var ValidRoles = []string{string(RoleAdmin), string(RoleInstructor), string(RoleUser)}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is a studio administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
