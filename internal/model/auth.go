package model

import "time"

// UserToken is the identity carried by a verified bearer token.
type UserToken struct {
	UserID   string     `json:"user_id"`
	Username string     `json:"username"`
	Email    string     `json:"email,omitempty"`
	Exp      *time.Time `json:"exp,omitempty"`
}

// User is an entry in the local user directory.
type User struct {
	ID       string
	Username string
	Email    string
	Password string
}

// LoginRequest is the request payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response payload for the login endpoint.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}
