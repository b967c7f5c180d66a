package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/cache"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"
)

var errNetwork = errors.New("network unreachable")

// fakeProducts is an in-memory ProductStore with failure injection.
type fakeProducts struct {
	mu        sync.Mutex
	items     map[uuid.UUID][]models.Product
	listErr   error
	createErr error
	deleteErr error
	listCalls int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: make(map[uuid.UUID][]models.Product)}
}

func (f *fakeProducts) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Product{}, f.items[owner]...), nil
}

func (f *fakeProducts) Create(ctx context.Context, owner uuid.UUID, name string) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Product{}, f.createErr
	}
	p := models.Product{ID: uuid.New(), Name: name, UserID: owner, CreatedAt: time.Now()}
	f.items[owner] = append(f.items[owner], p)
	return p, nil
}

func (f *fakeProducts) Delete(ctx context.Context, owner, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, p := range f.items[owner] {
		if p.ID == id {
			f.items[owner] = append(f.items[owner][:i], f.items[owner][i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProducts) fail(list, create, del error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr, f.createErr, f.deleteErr = list, create, del
}

// fakeProfiles is an in-memory ProfileStore with the repository's revision
// semantics and failure injection.
type fakeProfiles struct {
	mu        sync.Mutex
	docs      map[uuid.UUID]models.DietaryProfile
	getErr    error
	upsertErr error
	upserts   int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{docs: make(map[uuid.UUID]models.DietaryProfile)}
}

func (f *fakeProfiles) Get(ctx context.Context, user uuid.UUID) (models.DietaryProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.DietaryProfile{}, f.getErr
	}
	doc, ok := f.docs[user]
	if !ok {
		return models.DietaryProfile{}, repository.ErrNotFound
	}
	return doc, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, user uuid.UUID, preferences []string, base int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	doc, ok := f.docs[user]
	if ok && base != repository.AnyRevision && doc.Revision != base {
		return 0, repository.ErrRevisionConflict
	}
	doc = models.DietaryProfile{
		UserID:        user,
		Preferences:   append(models.PreferenceList{}, preferences...),
		SchemaVersion: models.DietaryProfileSchemaVersion,
		Revision:      doc.Revision + 1,
	}
	f.docs[user] = doc
	return doc.Revision, nil
}

func (f *fakeProfiles) set(user uuid.UUID, prefs []string, rev int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[user] = models.DietaryProfile{UserID: user, Preferences: prefs, Revision: rev}
}

func (f *fakeProfiles) doc(user uuid.UUID) (models.DietaryProfile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[user]
	return doc, ok
}

func (f *fakeProfiles) fail(get, upsert error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr, f.upsertErr = get, upsert
}

type syncFixture struct {
	svc      *SyncService
	products *fakeProducts
	profiles *fakeProfiles
	store    *cache.MemoryStore
	cache    *cache.LocalCache
	metrics  *metrics.Metrics
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	f := &syncFixture{
		products: newFakeProducts(),
		profiles: newFakeProfiles(),
		store:    cache.NewMemoryStore(),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	f.cache = cache.NewLocalCache(f.store)
	f.svc = NewSyncService(f.products, f.profiles, f.cache, zaptest.NewLogger(t), f.metrics)
	t.Cleanup(f.svc.Wait)
	return f
}

// fakeGenerator is a TextGenerator returning a canned reply.
type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (g *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}
