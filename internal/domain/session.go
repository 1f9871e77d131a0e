package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// ID is a record identifier from the FinanceHub API. The mock backend
// emits both numeric and string ids, so both decode into the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// ============================================================
// Session Gate: Request / Response types
// ============================================================

// User is a record of GET /users on the FinanceHub API.
type User struct {
	ID       ID     `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Session is the proof of a successful login.
type Session struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// SessionFromUser strips the credential from a user record.
func SessionFromUser(u User) Session {
	return Session{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body for 200 from POST /v1/auth/login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Session   Session   `json:"session"`
	Next      string    `json:"next"`
}
