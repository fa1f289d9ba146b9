// Package viewtracker counts post views from the client side. A view is sent
// to the API at most once per slug within the marker expiry window; the
// counter is approximate and failed sends are never retried.
package viewtracker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultExpiry is how long a viewed marker suppresses repeat increments.
const DefaultExpiry = 8 * time.Hour

const sendTimeout = 10 * time.Second

var ErrMissingPost = errors.New("viewtracker: post id and slug are required")

// Incrementer sends one view to the server. *client.Client satisfies it.
type Incrementer interface {
	IncrementView(ctx context.Context, postID, slug string) (int, error)
}

// Store persists viewed markers keyed by slug. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(slug string) (time.Time, bool, error)
	Put(slug string, at time.Time) error
	// PurgeBefore drops every marker viewed before cutoff.
	PurgeBefore(cutoff time.Time) error
}

type Tracker struct {
	inc    Incrementer
	store  Store
	expiry time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	inflight sync.WaitGroup
}

type Option func(*Tracker)

func WithExpiry(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.expiry = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// New returns a Tracker. A nil store keeps markers in memory.
func New(inc Incrementer, store Store, opts ...Option) *Tracker {
	if store == nil {
		store = NewMemoryStore()
	}
	t := &Tracker{
		inc:    inc,
		store:  store,
		expiry: DefaultExpiry,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track records a view of the post. It purges expired markers, and when no
// fresh marker exists for slug it writes one and sends a single increment in
// the background. It reports whether an increment was sent.
func (t *Tracker) Track(ctx context.Context, postID, slug string) (bool, error) {
	postID, slug = strings.TrimSpace(postID), strings.TrimSpace(slug)
	if postID == "" || slug == "" {
		return false, ErrMissingPost
	}

	t.mu.Lock()
	now := t.now()
	if err := t.store.PurgeBefore(now.Add(-t.expiry)); err != nil {
		t.mu.Unlock()
		return false, err
	}
	_, seen, err := t.store.Get(slug)
	if err != nil {
		t.mu.Unlock()
		return false, err
	}
	if seen {
		t.mu.Unlock()
		return false, nil
	}
	// The marker is written before sending and stays even if the send fails.
	if err := t.store.Put(slug, now); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.mu.Unlock()

	t.inflight.Add(1)
	go t.send(context.WithoutCancel(ctx), postID, slug)
	return true, nil
}

func (t *Tracker) send(ctx context.Context, postID, slug string) {
	defer t.inflight.Done()

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	count, err := t.inc.IncrementView(ctx, postID, slug)
	if err != nil {
		t.logger.WarnContext(ctx, "view increment failed",
			slog.String("post_id", postID),
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return
	}
	t.logger.DebugContext(ctx, "view counted", slog.String("slug", slug), slog.Int("view_count", count))
}

// Wait blocks until every increment sent so far has finished.
func (t *Tracker) Wait() {
	t.inflight.Wait()
}
