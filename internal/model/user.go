package model

// User is the server-side identity of an account. The client only ever
// holds a read-only cached copy of it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
