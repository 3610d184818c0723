package model

import "time"

// Token is an opaque bearer credential. The value is a random string that is
// meaningful only via server-side lookup; the signature is an HMAC over
// (value, user_id, expires_at) keyed by the server secret, so a record cannot
// be forged or extended if the store is ever externalized.
type Token struct {
	Value     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Signature []byte
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        PublicUser `json:"user"`
}
