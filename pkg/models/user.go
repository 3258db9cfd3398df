package models

// AuthUser is the authenticated identity extracted from a verified bearer
// token. The core never creates or destroys users, only references them.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
