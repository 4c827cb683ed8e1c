// Package guest supplies the anonymous per-session identity that tags the
// seats a client holds a lock on.
package guest

import (
	"context"
	"sync"
	"sync/atomic"

	"seatmap-client/internal/data/repository"
	"seatmap-client/pkg/utils"

	"go.uber.org/zap"
)

// StorageKey is the key the persisted identity is stored under.
const StorageKey = "guestId"

// Provider produces one guest id per session. The first call to GuestID
// generates (or, when persistence is enabled, loads) the id; later calls
// return the same value. The lookup is detached from the caller's
// cancellation so one aborted request cannot pin a session-only id.
type Provider struct {
	once      sync.Once
	id        string
	persisted atomic.Bool

	store    repository.StorageRepository
	generate func() string
	log      *zap.Logger
}

type Option func(*Provider)

// WithPersistence stores the id in store so a restart reuses it.
// Reusing an id never grants ownership by itself: a seat only counts as held
// when the booking service reports it LOCKED by that id.
func WithPersistence(store repository.StorageRepository) Option {
	return func(p *Provider) {
		p.store = store
	}
}

// WithGenerator replaces the id generator.
func WithGenerator(generate func() string) Option {
	return func(p *Provider) {
		p.generate = generate
	}
}

func NewProvider(log *zap.Logger, opts ...Option) *Provider {
	p := &Provider{
		generate: utils.GenerateGuestID,
		log:      log.With(zap.String("component", "guest")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) GuestID(ctx context.Context) string {
	p.once.Do(func() {
		id, persisted := p.resolve(context.WithoutCancel(ctx))
		p.id = id
		p.persisted.Store(persisted)
		p.log.Info("Guest identity ready",
			zap.String("guest_id", id),
			zap.Bool("persisted", persisted),
		)
	})
	return p.id
}

// Persisted reports whether the current id is backed by durable storage.
// It is false until the first GuestID call has resolved the id.
func (p *Provider) Persisted() bool {
	return p.persisted.Load()
}

func (p *Provider) resolve(ctx context.Context) (string, bool) {
	if p.store == nil {
		return p.generate(), false
	}

	stored, ok, err := p.store.Get(ctx, StorageKey)
	if err != nil {
		p.log.Warn("Failed to load stored guest id, using a session-only id", zap.Error(err))
		return p.generate(), false
	}
	if ok && stored != "" {
		return stored, true
	}

	id := p.generate()
	if err := p.store.Set(ctx, StorageKey, id); err != nil {
		p.log.Warn("Failed to persist guest id, using a session-only id", zap.Error(err))
		return id, false
	}
	return id, true
}
