package main

import (
	"context"
	"errors"
	"log"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/dietary"
	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/repository"
)

const testPassword = "testpassword123"

type seedUser struct {
	name     string
	email    string
	products []string
	profile  func(dietary.Profile) dietary.Profile
}

// Test users covering an empty pantry, a restricted diet and custom allergens
var testUsers = []seedUser{
	{
		name:     "John Doe",
		email:    "john.doe@example.com",
		products: []string{"eggs", "spinach", "feta", "olive oil", "garlic"},
		profile:  func(p dietary.Profile) dietary.Profile { return p },
	},
	{
		name:     "Jane Smith",
		email:    "jane.smith@example.com",
		products: []string{"chickpeas", "tahini", "lemon", "cumin", "rice"},
		profile: func(p dietary.Profile) dietary.Profile {
			p, _ = p.Toggle(dietary.CategoryPreferences, "vegan")
			p, _ = p.Toggle(dietary.CategoryAllergens, "gluten")
			p, _ = p.Toggle(dietary.CategoryHealthGoals, "highProtein")
			return p
		},
	},
	{
		name:     "Bob Wilson",
		email:    "bob.wilson@example.com",
		products: []string{"salmon", "potatoes", "dill", "butter"},
		profile: func(p dietary.Profile) dietary.Profile {
			p, _ = p.Toggle(dietary.CategoryAllergens, "dairy")
			p, _ = p.AddCustomAllergen("walnut")
			p, _ = p.AddCustomAllergen("kiwi")
			p, _ = p.Toggle(dietary.CategoryHealthGoals, "lowSodium")
			return p
		},
	},
	{
		name:  "Empty Pantry",
		email: "empty@example.com",
		profile: func(p dietary.Profile) dietary.Profile {
			return p
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Environment.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Hash password for test users
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("Failed to hash password", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	profiles := repository.NewDietaryProfileRepository(db)

	for _, u := range testUsers {
		ulog := logger.With(zap.String("email", u.email))

		// Check if user already exists
		if _, err := users.FindByEmail(ctx, u.email); err == nil {
			ulog.Info("User already exists, skipping")
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			ulog.Error("Failed to look up user", zap.Error(err))
			continue
		}

		user := models.User{Name: u.name, Email: u.email, PasswordHash: string(hashedPassword)}
		if err := users.Create(ctx, &user); err != nil {
			ulog.Error("Failed to create user", zap.Error(err))
			continue
		}

		for _, name := range u.products {
			if _, err := products.Create(ctx, user.ID, name); err != nil {
				ulog.Error("Failed to add product", zap.String("product", name), zap.Error(err))
			}
		}

		profile := u.profile(dietary.Default())
		if _, err := profiles.Upsert(ctx, user.ID, dietary.Flatten(profile), repository.AnyRevision); err != nil {
			ulog.Error("Failed to save dietary profile", zap.Error(err))
			continue
		}

		ulog.Info("Created test user",
			zap.Int("products", len(u.products)),
			zap.Strings("restrictions", profile.Restrictions()))
	}

	logger.Info("Test users created", zap.String("password", testPassword))
}
