package models

import "github.com/golang-jwt/jwt/v5"

// SignupRequest holds the fields required to register an identity.
// Password length is additionally checked against the configured minimum.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required,min=1"`
	LastName  string `json:"last_name" validate:"required,min=1"`
}

// SigninRequest holds credentials for authenticating an identity.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SigninResponse returns the issued token and identity info.
type SigninResponse struct {
	Token    string       `json:"token"`
	Identity IdentityInfo `json:"identity"`
}

// TokenClaims is the JWT payload for session tokens. The embedded role must
// agree with the role implied by the verifying secret.
type TokenClaims struct {
	IdentityID string `json:"identity_id"`
	Role       Role   `json:"role"`
	jwt.RegisteredClaims
}
