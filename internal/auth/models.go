package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthProviderLink struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Provider       string    `json:"provider"`
	ProviderUserID *string   `json:"provider_user_id"`
	ProviderEmail  *string   `json:"provider_email"`
	CreatedAt      time.Time `json:"created_at"`
}
