// Package inventory holds the client-side entity stores. A Store owns one
// collection, mediates every read and write against the inventory API and
// exposes loading and error state to the presentation layer.
//
// Operations are not coordinated with each other: two concurrent calls are
// independent request/mutate sequences and the last one to finish wins. The
// mutex only protects memory.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/erazemk/liquorlocker/internal/apperr"
	"github.com/erazemk/liquorlocker/internal/model"
)

// Record is an entity with a server-assigned id.
type Record interface {
	Key() int64
}

// Draft is the editable part of an entity, sent on create and update.
type Draft[D any] interface {
	Normalized(today model.Date) D
}

// Transport performs the HTTP calls. *client.Client implements it.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
}

// Resource describes one entity family of the inventory API.
type Resource struct {
	// Path is the collection endpoint, e.g. "/bottles".
	Path string
	// Singular and Plural name the entity in user-facing messages.
	Singular string
	Plural   string
}

// Store is the single source of truth for one entity collection.
type Store[R Record, D Draft[D]] struct {
	res       Resource
	transport Transport
	now       func() time.Time

	mu      sync.Mutex
	items   []R
	loading int
	errMsg  string
	lastErr error
	subs    []func()
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used to default open dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewStore creates an empty store for res.
func NewStore[R Record, D Draft[D]](res Resource, transport Transport, opts ...Option) *Store[R, D] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[R, D]{res: res, transport: transport, now: o.now}
}

// Resource returns the resource the store synchronizes.
func (s *Store[R, D]) Resource() Resource {
	return s.res
}

// Items returns a copy of the collection, newest first after creates.
func (s *Store[R, D]) Items() []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]R, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the record with the given id.
func (s *Store[R, D]) Find(id int64) (R, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero R
	return zero, false
}

// Loading reports whether any operation is in flight.
func (s *Store[R, D]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Err returns the user-facing message of the last failure, or "".
func (s *Store[R, D]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// LastError returns the last failure with its kind, or nil.
func (s *Store[R, D]) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn to be called after every state change.
func (s *Store[R, D]) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// List fetches the whole collection. On failure the previous collection is
// kept and Err is set; the error is returned for logging only.
func (s *Store[R, D]) List(ctx context.Context) error {
	s.begin()
	defer s.end()

	var items []R
	if err := s.transport.Get(ctx, s.res.Path, &items); err != nil {
		return s.fail(apperr.OpLoad, err)
	}
	if items == nil {
		items = []R{}
	}

	s.mutate(func() { s.items = items })
	return nil
}

// Create validates draft, posts it, and prepends the created record. On
// failure the collection is unchanged and the error is returned so a form
// can keep its fields.
func (s *Store[R, D]) Create(ctx context.Context, draft D) (R, error) {
	var created R

	draft = draft.Normalized(s.today())
	if err := validateDraft(draft); err != nil {
		s.setErr(err)
		return created, err
	}

	s.begin()
	defer s.end()

	if err := s.transport.Post(ctx, s.res.Path, draft, &created); err != nil {
		return created, s.fail(apperr.OpSave, err)
	}

	s.mutate(func() {
		items := make([]R, 0, len(s.items)+1)
		items = append(items, created)
		s.items = append(items, s.items...)
	})
	slog.Debug("created", "resource", s.res.Path, "id", created.Key())
	return created, nil
}

// Update replaces the record with the given id. Dates are sent as ISO
// strings or null. On success the record is replaced in place.
func (s *Store[R, D]) Update(ctx context.Context, id int64, draft D) (R, error) {
	var updated R

	draft = draft.Normalized(s.today())
	if err := validateDraft(draft); err != nil {
		s.setErr(err)
		return updated, err
	}

	s.begin()
	defer s.end()

	if err := s.transport.Put(ctx, s.itemPath(id), draft, &updated); err != nil {
		return updated, s.fail(apperr.OpUpdate, err)
	}

	s.mutate(func() {
		items := make([]R, len(s.items))
		for i, it := range s.items {
			if it.Key() == id {
				items[i] = updated
			} else {
				items[i] = it
			}
		}
		s.items = items
	})
	return updated, nil
}

// Delete removes the record with the given id. Failures are recorded in Err
// and not returned; the result reports whether the record was deleted.
func (s *Store[R, D]) Delete(ctx context.Context, id int64) bool {
	s.begin()
	defer s.end()

	if err := s.transport.Delete(ctx, s.itemPath(id)); err != nil {
		s.fail(apperr.OpDelete, err)
		return false
	}

	s.mutate(func() {
		items := make([]R, 0, len(s.items))
		for _, it := range s.items {
			if it.Key() != id {
				items = append(items, it)
			}
		}
		s.items = items
	})
	return true
}

func (s *Store[R, D]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", s.res.Path, id)
}

func (s *Store[R, D]) today() model.Date {
	return model.DateOf(s.now())
}

// begin marks an operation in flight and clears the previous error.
func (s *Store[R, D]) begin() {
	s.mu.Lock()
	s.loading++
	s.errMsg = ""
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()
}

func (s *Store[R, D]) end() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
	s.notify()
}

func (s *Store[R, D]) fail(op apperr.Op, err error) error {
	err = apperr.Describe(err, op, s.res.Singular, s.res.Plural)
	slog.Warn("inventory request failed", "resource", s.res.Path, "op", string(op), "error", err)
	s.setErr(err)
	return err
}

func (s *Store[R, D]) setErr(err error) {
	s.mu.Lock()
	s.errMsg = apperr.Message(err)
	s.lastErr = err
	s.mu.Unlock()
	s.notify()
}

func (s *Store[R, D]) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify()
}

func (s *Store[R, D]) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
