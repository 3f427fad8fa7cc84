package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds the credentials entered on either login tab.
type LoginRequest struct {
	Role       UserRole `json:"role" validate:"required"`
	Identifier string   `json:"identifier" validate:"required"`
	Password   string   `json:"password" validate:"required"`
}

// LoginResponse returns the session token and the logged in user.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	User        User   `json:"user"`
}

// JWTClaims represents the session token payload.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims into a caller identity.
func (c *JWTClaims) Actor() Actor {
	return Actor{ID: c.UserID, Name: c.Name, Role: c.Role}
}
