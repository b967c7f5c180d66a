package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/cache"
	"github.com/pageza/pantrychef/backend/internal/dietary"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrEmptyProductName = errors.New("product name is required")
	ErrEmptyAllergen    = errors.New("allergen is required")
)

// profilePushTimeout bounds one background profile upsert.
const profilePushTimeout = 15 * time.Second

// SyncService keeps the pantry and the dietary profile in step between the
// local cache and the remote store. Loads prefer the remote store and fall
// back to the cache; profile saves are cache-first with a background push;
// product changes are remote-first.
type SyncService struct {
	products ProductStore
	profiles ProfileStore
	cache    *cache.LocalCache
	log      *zap.Logger
	metrics  *metrics.Metrics

	pushes    sync.WaitGroup
	pushLocks userLocks
	editLocks userLocks
}

// NewSyncService builds a SyncService over the remote stores and the local cache.
func NewSyncService(products ProductStore, profiles ProfileStore, lc *cache.LocalCache, log *zap.Logger, m *metrics.Metrics) *SyncService {
	return &SyncService{
		products: products,
		profiles: profiles,
		cache:    lc,
		log:      log,
		metrics:  m,
	}
}

// LoadInventory returns the remote product list and refreshes the cache with
// it. When the remote store fails the cached list is returned instead.
func (s *SyncService) LoadInventory(ctx context.Context, user uuid.UUID) []models.Product {
	unlock := s.editLocks.lock(user)
	defer unlock()
	return s.loadInventory(ctx, user)
}

// loadInventory is LoadInventory for callers holding the user's edit lock.
func (s *SyncService) loadInventory(ctx context.Context, user uuid.UUID) []models.Product {
	products, err := s.products.ListByOwner(ctx, user)
	if err == nil {
		if err := s.cache.SetProducts(ctx, user, products); err != nil {
			s.log.Warn("Failed to cache products", zap.String("user_id", user.String()), zap.Error(err))
		}
		return products
	}

	s.log.Warn("Failed to load products, using local cache", zap.String("user_id", user.String()), zap.Error(err))
	s.metrics.SyncFallbacks.WithLabelValues("products").Inc()
	return s.cachedProducts(ctx, user)
}

// LoadProfile returns the remote profile and refreshes the cache with it. A
// user without a profile document gets the default profile. Other remote
// failures fall back to the cache, then to the default. While a saved edit
// has not reached the remote store, the cached profile wins.
func (s *SyncService) LoadProfile(ctx context.Context, user uuid.UUID) dietary.Profile {
	unlock := s.editLocks.lock(user)
	defer unlock()
	return s.loadProfile(ctx, user)
}

// loadProfile is LoadProfile for callers holding the user's edit lock.
func (s *SyncService) loadProfile(ctx context.Context, user uuid.UUID) dietary.Profile {
	if _, pending := s.pendingSeq(ctx, user); pending {
		if p, err := s.cache.Profile(ctx, user); err == nil {
			s.log.Debug("Keeping unsynced dietary profile edit", zap.String("user_id", user.String()))
			return p
		}
	}

	doc, err := s.profiles.Get(ctx, user)
	switch {
	case err == nil:
		p := dietary.Unflatten(doc.Preferences)
		if err := s.cache.SetProfile(ctx, user, p); err != nil {
			s.log.Warn("Failed to cache dietary profile", zap.String("user_id", user.String()), zap.Error(err))
		} else if err := s.cache.SetProfileRevision(ctx, user, doc.Revision); err != nil {
			s.log.Warn("Failed to cache dietary profile revision", zap.String("user_id", user.String()), zap.Error(err))
		}
		return p
	case errors.Is(err, repository.ErrNotFound):
		return dietary.Default()
	}

	s.log.Warn("Failed to load dietary profile, using local cache", zap.String("user_id", user.String()), zap.Error(err))
	s.metrics.SyncFallbacks.WithLabelValues("dietary_profile").Inc()
	return s.cachedProfile(ctx, user)
}

// SaveProfile stores the profile in the cache, marks it unsynced and pushes
// it to the remote store in the background. Only the cache writes can fail
// the call.
func (s *SyncService) SaveProfile(ctx context.Context, user uuid.UUID, p dietary.Profile) error {
	unlock := s.editLocks.lock(user)
	defer unlock()
	return s.saveProfile(ctx, user, p)
}

// saveProfile is SaveProfile for callers holding the user's edit lock.
func (s *SyncService) saveProfile(ctx context.Context, user uuid.UUID, p dietary.Profile) error {
	if err := s.cache.SetProfile(ctx, user, p.Normalized()); err != nil {
		return fmt.Errorf("save dietary profile: %w", err)
	}
	seq, _ := s.pendingSeq(ctx, user)
	if err := s.cache.SetProfilePending(ctx, user, seq+1); err != nil {
		return fmt.Errorf("save dietary profile: %w", err)
	}

	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()
		s.pushProfile(context.WithoutCancel(ctx), user)
	}()
	return nil
}

// Wait blocks until every background profile push has finished.
func (s *SyncService) Wait() {
	s.pushes.Wait()
}

// pendingSeq reports the unsynced-save sequence number. An unreadable marker
// counts as pending with sequence 0.
func (s *SyncService) pendingSeq(ctx context.Context, user uuid.UUID) (int64, bool) {
	seq, err := s.cache.ProfilePending(ctx, user)
	switch {
	case err == nil:
		return seq, true
	case errors.Is(err, cache.ErrMiss):
		return 0, false
	}
	s.log.Warn("Unreadable dietary profile sync marker", zap.String("user_id", user.String()), zap.Error(err))
	return 0, true
}

// pushSnapshot is the cached state a push sends.
type pushSnapshot struct {
	profile dietary.Profile
	base    int64
	seq     int64
}

func (s *SyncService) snapshotForPush(ctx context.Context, user uuid.UUID, log *zap.Logger) (pushSnapshot, bool) {
	unlock := s.editLocks.lock(user)
	defer unlock()

	seq, pending := s.pendingSeq(ctx, user)
	if !pending {
		return pushSnapshot{}, false
	}
	p, err := s.cache.Profile(ctx, user)
	if err != nil {
		log.Warn("Failed to read dietary profile for push", zap.Error(err))
		s.metrics.ProfilePushes.WithLabelValues(metrics.OutcomeFailure).Inc()
		return pushSnapshot{}, false
	}

	base, err := s.cache.ProfileRevision(ctx, user)
	switch {
	case errors.Is(err, cache.ErrMiss):
		base = 0
	case err != nil:
		log.Warn("Unreadable dietary profile revision, pushing unconditionally", zap.Error(err))
		base = repository.AnyRevision
	}
	return pushSnapshot{profile: p, base: base, seq: seq}, true
}

// settlePush records the outcome of a push. The unsynced marker is cleared
// only when no newer save happened while the push was in flight.
func (s *SyncService) settlePush(ctx context.Context, user uuid.UUID, snap pushSnapshot, rev int64, log *zap.Logger) {
	unlock := s.editLocks.lock(user)
	defer unlock()

	if rev > 0 {
		if err := s.cache.SetProfileRevision(ctx, user, rev); err != nil {
			log.Warn("Failed to cache dietary profile revision", zap.Error(err))
		}
	}
	if seq, pending := s.pendingSeq(ctx, user); pending && seq == snap.seq {
		if err := s.cache.ClearProfilePending(ctx, user); err != nil {
			log.Warn("Failed to clear dietary profile sync marker", zap.Error(err))
		}
	}
}

// pushProfile upserts the latest cached profile. Pushes for one user run one
// at a time, so a later push never overwrites an earlier one's newer data.
// A push finding nothing unsynced does nothing.
func (s *SyncService) pushProfile(ctx context.Context, user uuid.UUID) {
	unlock := s.pushLocks.lock(user)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, profilePushTimeout)
	defer cancel()

	log := s.log.With(zap.String("user_id", user.String()))

	snap, ok := s.snapshotForPush(ctx, user, log)
	if !ok {
		return
	}

	rev, err := s.profiles.Upsert(ctx, user, dietary.Flatten(snap.profile), snap.base)
	switch {
	case errors.Is(err, repository.ErrRevisionConflict):
		// The remote document wins; the next load adopts it.
		log.Warn("Dietary profile changed remotely, push rejected", zap.Int64("base_revision", snap.base))
		s.metrics.ProfilePushes.WithLabelValues(metrics.OutcomeConflict).Inc()
		s.settlePush(ctx, user, snap, 0, log)
		return
	case err != nil:
		log.Warn("Failed to push dietary profile", zap.Error(err))
		s.metrics.ProfilePushes.WithLabelValues(metrics.OutcomeFailure).Inc()
		return
	}

	s.settlePush(ctx, user, snap, rev, log)
	s.metrics.ProfilePushes.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Debug("Pushed dietary profile", zap.Int64("revision", rev))
}

// AddProduct creates the product remotely and then appends it to the cached
// list. Nothing changes when the remote create fails.
func (s *SyncService) AddProduct(ctx context.Context, user uuid.UUID, name string) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, ErrEmptyProductName
	}

	p, err := s.products.Create(ctx, user, name)
	if err != nil {
		s.log.Warn("Failed to add product", zap.String("user_id", user.String()), zap.Error(err))
		return models.Product{}, fmt.Errorf("add product: %w", err)
	}

	unlock := s.editLocks.lock(user)
	defer unlock()

	cached, err := s.cache.Products(ctx, user)
	if err != nil {
		// Nothing usable to append to; reseed from the remote list.
		s.loadInventory(ctx, user)
		return p, nil
	}
	// A reload between the create and this point may already list it.
	if slices.ContainsFunc(cached, func(c models.Product) bool { return c.ID == p.ID }) {
		return p, nil
	}
	if err := s.cache.SetProducts(ctx, user, append(cached, p)); err != nil {
		s.log.Warn("Failed to cache products", zap.String("user_id", user.String()), zap.Error(err))
	}
	return p, nil
}

// DeleteProduct deletes the product remotely and then drops it from the
// cached list. A product already gone remotely counts as deleted.
func (s *SyncService) DeleteProduct(ctx context.Context, user, productID uuid.UUID) error {
	err := s.products.Delete(ctx, user, productID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("Failed to delete product",
			zap.String("user_id", user.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return fmt.Errorf("delete product: %w", err)
	}

	unlock := s.editLocks.lock(user)
	defer unlock()

	cached, err := s.cache.Products(ctx, user)
	if err != nil {
		return nil
	}
	cached = slices.DeleteFunc(cached, func(p models.Product) bool { return p.ID == productID })
	if err := s.cache.SetProducts(ctx, user, cached); err != nil {
		s.log.Warn("Failed to cache products", zap.String("user_id", user.String()), zap.Error(err))
	}
	return nil
}

// Inventory returns the cached product list, loading it on a miss.
func (s *SyncService) Inventory(ctx context.Context, user uuid.UUID) []models.Product {
	products, err := s.cache.Products(ctx, user)
	if err != nil {
		return s.LoadInventory(ctx, user)
	}
	return products
}

// CurrentProfile returns the cached profile, loading it on a miss.
func (s *SyncService) CurrentProfile(ctx context.Context, user uuid.UUID) dietary.Profile {
	p, err := s.cache.Profile(ctx, user)
	if err != nil {
		return s.LoadProfile(ctx, user)
	}
	return p
}

func (s *SyncService) currentProfile(ctx context.Context, user uuid.UUID) dietary.Profile {
	p, err := s.cache.Profile(ctx, user)
	if err != nil {
		return s.loadProfile(ctx, user)
	}
	return p
}

// ReplaceProfile normalizes a raw profile object and saves it whole.
func (s *SyncService) ReplaceProfile(ctx context.Context, user uuid.UUID, raw map[string]any) (dietary.Profile, error) {
	p := dietary.Normalize(raw)
	unlock := s.editLocks.lock(user)
	defer unlock()
	if err := s.saveProfile(ctx, user, p); err != nil {
		return dietary.Profile{}, err
	}
	return p, nil
}

// ToggleDietary flips one fixed flag and saves the result.
func (s *SyncService) ToggleDietary(ctx context.Context, user uuid.UUID, category dietary.Category, item string) (dietary.Profile, error) {
	return s.editProfile(ctx, user, func(p dietary.Profile) (dietary.Profile, bool, error) {
		next, err := p.Toggle(category, item)
		return next, err == nil, err
	})
}

// AddCustomAllergen adds a free-text allergen. A blank value is rejected.
func (s *SyncService) AddCustomAllergen(ctx context.Context, user uuid.UUID, value string) (dietary.Profile, error) {
	if strings.TrimSpace(value) == "" {
		return dietary.Profile{}, ErrEmptyAllergen
	}
	return s.editProfile(ctx, user, func(p dietary.Profile) (dietary.Profile, bool, error) {
		next, changed := p.AddCustomAllergen(value)
		return next, changed, nil
	})
}

// RemoveCustomAllergen drops exact matches of value; nothing is saved when
// none exist.
func (s *SyncService) RemoveCustomAllergen(ctx context.Context, user uuid.UUID, value string) (dietary.Profile, error) {
	return s.editProfile(ctx, user, func(p dietary.Profile) (dietary.Profile, bool, error) {
		next := p.RemoveCustomAllergen(value)
		return next, len(next.CustomAllergens) != len(p.CustomAllergens), nil
	})
}

// editProfile applies fn to the current profile and saves the result when
// fn reports a change. Edits for one user are serialized.
func (s *SyncService) editProfile(ctx context.Context, user uuid.UUID, fn func(dietary.Profile) (dietary.Profile, bool, error)) (dietary.Profile, error) {
	unlock := s.editLocks.lock(user)
	defer unlock()

	current := s.currentProfile(ctx, user)
	next, changed, err := fn(current)
	if err != nil {
		return dietary.Profile{}, err
	}
	if !changed {
		return current, nil
	}
	if err := s.saveProfile(ctx, user, next); err != nil {
		return dietary.Profile{}, err
	}
	return next, nil
}

// Warm loads inventory and profile into the cache after sign-in.
func (s *SyncService) Warm(ctx context.Context, user uuid.UUID) {
	s.LoadInventory(ctx, user)
	s.LoadProfile(ctx, user)
}

func (s *SyncService) cachedProducts(ctx context.Context, user uuid.UUID) []models.Product {
	products, err := s.cache.Products(ctx, user)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("Discarding unreadable cached products", zap.String("user_id", user.String()), zap.Error(err))
		}
		return []models.Product{}
	}
	return products
}

func (s *SyncService) cachedProfile(ctx context.Context, user uuid.UUID) dietary.Profile {
	p, err := s.cache.Profile(ctx, user)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("Discarding unreadable cached dietary profile", zap.String("user_id", user.String()), zap.Error(err))
		}
		return dietary.Default()
	}
	return p
}

// FilterProducts keeps the products whose name contains term, ignoring case.
func FilterProducts(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// userLocks hands out one mutex per user.
type userLocks struct {
	m sync.Map
}

func (l *userLocks) lock(user uuid.UUID) func() {
	v, _ := l.m.LoadOrStore(user, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
