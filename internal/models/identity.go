package models

// Role represents the available roles in the resource hub.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// CanApprove reports whether the role carries the moderation affordance.
// This is advisory client-side gating; the backend is the authority.
func (r Role) CanApprove() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// Identity is the authenticated session identity returned by the backend.
// It is immutable for the lifetime of a session and never persisted.
type Identity struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Semester *int   `json:"semester,omitempty"`
}

// DefaultSemester returns the semester drafts default to for this identity.
// Students default to their own semester, everyone else to 1.
func (i *Identity) DefaultSemester() int {
	if i != nil && i.Role == RoleStudent && i.Semester != nil {
		return *i.Semester
	}
	return 1
}

// LoginRequest is the payload sent to POST /auth/login. Semester is
// required for students and omitted for other roles.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"required,oneof=student teacher admin"`
	Semester *int   `json:"semester" validate:"required_if=Role student,omitempty,min=1,max=8"`
}
