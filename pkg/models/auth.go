package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTClaims struct {
	Subject   uuid.UUID `json:"subject"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	jwt.RegisteredClaims
}

type AuthRequest struct {
	Subject   string  `json:"subject" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required,min=1,max=255"`
	Email     string  `json:"email" validate:"required,email"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
}

// RateLimitInfo is the admission decision returned to clients alongside
// 429 responses and exposed through the X-RateLimit-* headers.
type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"` // unix milliseconds
}
