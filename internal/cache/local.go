package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/dietary"
	"github.com/pageza/pantrychef/backend/internal/models"
)

// SchemaVersion is written into every envelope. Entries with any other
// version read as ErrIncompatible.
const SchemaVersion = 1

type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

// LocalCache stores a user's last known products, dietary profile, profile
// revision, unsynced-edit marker and theme index. Entries do not expire.
type LocalCache struct {
	store Store
}

func NewLocalCache(store Store) *LocalCache {
	return &LocalCache{store: store}
}

func productsKey(user uuid.UUID) string { return fmt.Sprintf("pantry:%s:products", user) }
func profileKey(user uuid.UUID) string  { return fmt.Sprintf("pantry:%s:dietary_profile", user) }
func revisionKey(user uuid.UUID) string { return fmt.Sprintf("pantry:%s:dietary_profile_rev", user) }
func themeKey(user uuid.UUID) string    { return fmt.Sprintf("pantry:%s:theme_index", user) }
func pendingKey(user uuid.UUID) string  { return fmt.Sprintf("pantry:%s:dietary_profile_pending", user) }

// Products returns the cached product list.
func (c *LocalCache) Products(ctx context.Context, user uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := c.read(ctx, productsKey(user), &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (c *LocalCache) SetProducts(ctx context.Context, user uuid.UUID, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return c.write(ctx, productsKey(user), products)
}

// Profile returns the cached profile, normalized on the way out.
func (c *LocalCache) Profile(ctx context.Context, user uuid.UUID) (dietary.Profile, error) {
	var raw map[string]any
	if err := c.read(ctx, profileKey(user), &raw); err != nil {
		return dietary.Profile{}, err
	}
	return dietary.Normalize(raw), nil
}

func (c *LocalCache) SetProfile(ctx context.Context, user uuid.UUID, p dietary.Profile) error {
	return c.write(ctx, profileKey(user), p.Normalized())
}

// ProfileRevision returns the revision of the remote profile this cache last saw.
func (c *LocalCache) ProfileRevision(ctx context.Context, user uuid.UUID) (int64, error) {
	var rev int64
	err := c.read(ctx, revisionKey(user), &rev)
	return rev, err
}

func (c *LocalCache) SetProfileRevision(ctx context.Context, user uuid.UUID, rev int64) error {
	return c.write(ctx, revisionKey(user), rev)
}

// ProfilePending returns the sequence number of the newest profile save that
// has not reached the remote store yet. ErrMiss means nothing is pending.
func (c *LocalCache) ProfilePending(ctx context.Context, user uuid.UUID) (int64, error) {
	var seq int64
	err := c.read(ctx, pendingKey(user), &seq)
	return seq, err
}

func (c *LocalCache) SetProfilePending(ctx context.Context, user uuid.UUID, seq int64) error {
	return c.write(ctx, pendingKey(user), seq)
}

func (c *LocalCache) ClearProfilePending(ctx context.Context, user uuid.UUID) error {
	if err := c.store.Delete(ctx, pendingKey(user)); err != nil {
		return fmt.Errorf("cache delete %s: %w", pendingKey(user), err)
	}
	return nil
}

func (c *LocalCache) ThemeIndex(ctx context.Context, user uuid.UUID) (int, error) {
	var idx int
	err := c.read(ctx, themeKey(user), &idx)
	return idx, err
}

func (c *LocalCache) SetThemeIndex(ctx context.Context, user uuid.UUID, idx int) error {
	return c.write(ctx, themeKey(user), idx)
}

func (c *LocalCache) read(ctx context.Context, key string, dst any) error {
	b, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return ErrMiss
		}
		return fmt.Errorf("cache read %s: %w", key, err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil || env.V != SchemaVersion {
		return ErrIncompatible
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return ErrIncompatible
	}
	return nil
}

func (c *LocalCache) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	b, err := json.Marshal(envelope{V: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, b, 0); err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	return nil
}
