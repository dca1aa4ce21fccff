package model

import "time"

// Student is a roster entry. It is created by an owner and is distinct from
// the User record that lets the same person log in. MessID is fixed at
// creation.
type Student struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	MessID   string    `json:"messId"`
	JoinedAt time.Time `json:"joinedAt"`
}
