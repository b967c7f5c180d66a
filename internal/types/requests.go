package types

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for creating a session
type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// SessionResponse is returned by a successful login
type SessionResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	Persistent bool      `json:"persistent"`
	User       UserInfo  `json:"user"`
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AddProductRequest represents the request body for adding a pantry item
type AddProductRequest struct {
	Name string `json:"name"`
}

// ToggleDietaryRequest flips one fixed dietary flag
type ToggleDietaryRequest struct {
	Category string `json:"category" binding:"required"`
	Item     string `json:"item" binding:"required"`
}

// CustomAllergenRequest adds a free-text allergen
type CustomAllergenRequest struct {
	Value string `json:"value"`
}

// SaveRecipeRequest represents the request body for saving or editing a recipe
type SaveRecipeRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}
