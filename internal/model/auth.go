package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for authenticated users.
type UserClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after signup, login and /me lookups.
type AuthResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
