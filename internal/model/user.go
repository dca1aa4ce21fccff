package model

// Role distinguishes mess owners from the students they feed.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleOwner || r == RoleStudent }

// User is an identity directory entry, stored in the "users" map keyed by
// phone number.
//
// Fields:
//
//	ID      stable identity referenced by sessions, messes and the ledger.
//	Name    display name.
//	Phone   10-digit number, unique across the directory.
//	Role    OWNER or STUDENT.
//	MessID  mess a student belongs to; empty for owners and unlinked students.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Role   Role   `json:"role"`
	MessID string `json:"messId,omitempty"`
}

// UserUpdate lists the user fields that may change after registration.
// A nil field means "leave unchanged".
type UserUpdate struct {
	Name   *string
	MessID *string
}

// Apply returns a copy of u with the non-nil fields of upd applied.
func (upd UserUpdate) Apply(u User) User {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.MessID != nil {
		u.MessID = *upd.MessID
	}
	return u
}
