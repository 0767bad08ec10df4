package models

// User is a registered account as stored in the user registry.
// Password holds the stored secret (plain by default, bcrypt when the
// hashing option is enabled); the session record never carries it.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Sanitized returns a copy of u with the secret stripped. This is the
// shape persisted as the session record and exposed to the UI.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
