package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the decoded bearer identity handed to the core: who the caller
// is, independent of how the credential was minted.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// Anonymous is the fallback identity used when a bearer credential is present
// but cannot be decoded. The guest-facing paths deliberately fail open to it;
// a production system would fail closed instead.
var Anonymous = Identity{
	ID:    uuid.MustParse("00000000-0000-0000-0000-000000000001"),
	Email: "anonymous@tripmate.local",
	Role:  "guest",
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the core-facing identity value.
func (c *AccessTokenClaims) Identity() Identity {
	return Identity{ID: c.UserID, Email: c.Email, Role: c.Role}
}
