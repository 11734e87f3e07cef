package model

// User is an account that signs in with e-mail and password.
type User struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
}
