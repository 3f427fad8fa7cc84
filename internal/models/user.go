package models

// UserRole represents the two portal roles.
type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// User is a roster entry or the fixed teacher identity.
type User struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Mobile  string   `json:"mobile"`
	Role    UserRole `json:"role"`
	Batch   *string  `json:"batch,omitempty"`
	Class   *string  `json:"class,omitempty"`
	Section *string  `json:"section,omitempty"`
}

// IsTeacher reports whether the user holds the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// Actor is the authenticated caller threaded into every domain operation.
type Actor struct {
	ID   string
	Name string
	Role UserRole
}

// IsTeacher reports whether the actor may perform teacher-only operations.
func (a Actor) IsTeacher() bool {
	return a.Role == RoleTeacher
}

// CreateStudentRequest is the payload for adding a roster entry.
type CreateStudentRequest struct {
	Name    string  `json:"name" validate:"required"`
	Mobile  string  `json:"mobile" validate:"required"`
	Batch   *string `json:"batch"`
	Class   *string `json:"class"`
	Section *string `json:"section"`
}

// UpdateStudentRequest patches only the provided fields.
type UpdateStudentRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Mobile  *string `json:"mobile" validate:"omitempty,min=1"`
	Batch   *string `json:"batch"`
	Class   *string `json:"class"`
	Section *string `json:"section"`
}

// StudentView decorates a roster entry with its telephony link.
type StudentView struct {
	User
	TelLink string `json:"telLink"`
}
