package domain

import "github.com/totegamma/saucebox"

// User is a registered account.
type User struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Session = saucebox.Session
