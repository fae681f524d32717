package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the custom claims carried by access tokens minted by
// the external auth service. This service only validates them.
type Claims struct {
	UserID               string `json:"uid"`           // Custom claim for User ID.
	Email                string `json:"eml,omitempty"` // Custom claim for Email.
	Role                 string `json:"rol,omitempty"` // Custom claim for User Role.
	jwt.RegisteredClaims        // Embed standard claims (ExpiresAt, IssuedAt, Subject, etc.).
}
