package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/dietary"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/types"
)

// ProductStore is the remote products collection.
type ProductStore interface {
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, owner uuid.UUID, name string) (models.Product, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// ProfileStore is the remote dietary profile collection.
type ProfileStore interface {
	Get(ctx context.Context, user uuid.UUID) (models.DietaryProfile, error)
	Upsert(ctx context.Context, user uuid.UUID, preferences []string, baseRevision int64) (int64, error)
}

// RecipeStore is the remote saved recipes collection.
type RecipeStore interface {
	ListByOwner(ctx context.Context, owner uuid.UUID, favoritesOnly bool) ([]models.Recipe, error)
	Get(ctx context.Context, owner, id uuid.UUID) (models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, owner, id uuid.UUID, name, content string) (models.Recipe, error)
	SetFavorite(ctx context.Context, owner, id uuid.UUID, favorite bool) (models.Recipe, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// UserStore is the accounts collection.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// ObjectStorage uploads shared recipes and signs download links.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ISyncService defines the pantry and dietary profile operations
type ISyncService interface {
	LoadInventory(ctx context.Context, user uuid.UUID) []models.Product
	LoadProfile(ctx context.Context, user uuid.UUID) dietary.Profile
	Inventory(ctx context.Context, user uuid.UUID) []models.Product
	CurrentProfile(ctx context.Context, user uuid.UUID) dietary.Profile
	AddProduct(ctx context.Context, user uuid.UUID, name string) (models.Product, error)
	DeleteProduct(ctx context.Context, user, productID uuid.UUID) error
	ReplaceProfile(ctx context.Context, user uuid.UUID, raw map[string]any) (dietary.Profile, error)
	ToggleDietary(ctx context.Context, user uuid.UUID, category dietary.Category, item string) (dietary.Profile, error)
	AddCustomAllergen(ctx context.Context, user uuid.UUID, value string) (dietary.Profile, error)
	RemoveCustomAllergen(ctx context.Context, user uuid.UUID, value string) (dietary.Profile, error)
	Warm(ctx context.Context, user uuid.UUID)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string, remember bool) (Session, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (models.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// IRecipeService defines the interface for saved recipe operations
type IRecipeService interface {
	Save(ctx context.Context, user uuid.UUID, name, content string) (models.Recipe, error)
	List(ctx context.Context, user uuid.UUID, favoritesOnly bool) ([]models.Recipe, error)
	Get(ctx context.Context, user, id uuid.UUID) (models.Recipe, error)
	Update(ctx context.Context, user, id uuid.UUID, name, content string) (models.Recipe, error)
	ToggleFavorite(ctx context.Context, user, id uuid.UUID) (models.Recipe, error)
	Delete(ctx context.Context, user, id uuid.UUID) error
	Share(ctx context.Context, user, id uuid.UUID) (string, error)
}

// IGenerationService defines recipe suggestion
type IGenerationService interface {
	SuggestRecipe(ctx context.Context, user uuid.UUID) (string, error)
}

// IThemeService defines theme selection
type IThemeService interface {
	Current(ctx context.Context, user uuid.UUID) Theme
	Next(ctx context.Context, user uuid.UUID) (Theme, error)
}
