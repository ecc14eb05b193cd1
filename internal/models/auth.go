package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access-token payload issued by the campus identity service.
// Only the subject fields are read; tokens are never minted here.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// OwnerID returns the stable owner identifier for persisted resources.
func (c *JWTClaims) OwnerID() string {
	if c == nil {
		return ""
	}
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}
