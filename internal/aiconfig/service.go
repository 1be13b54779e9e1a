// Package aiconfig holds the AI provider connection state: whether the
// inventory backend has been configured with a provider, which models the
// provider offers, and which model the user selected. The selection and the
// last successful configuration time persist in local storage.
package aiconfig

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/erazemk/liquorlocker/internal/apperr"
	"github.com/erazemk/liquorlocker/internal/localstore"
)

// MinAutoInterval is the minimum time between automatic configure attempts.
const MinAutoInterval = 5 * time.Second

// ErrMissingSettings is the message of the precondition failure raised when
// the provider URL or key is not stored.
const ErrMissingSettings = "Missing API settings"

// State is the configuration lifecycle.
type State int

const (
	StateUnconfigured State = iota
	StateConfiguring
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateConfigured:
		return "configured"
	}
	return "unconfigured"
}

// Transport performs the HTTP calls. *client.Client implements it.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// Settings are the provider credentials sent to the backend.
type Settings struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
}

// Snapshot is a copy of the service state for presentation.
type Snapshot struct {
	State          State
	IsConfigured   bool
	Models         []string
	SelectedModel  string
	LastConfigured *time.Time
	ConfigError    string
}

// Service is the AI configuration state. Construct it with New at the
// composition root and pass it to whatever needs it.
type Service struct {
	local  localstore.Storage
	api    Transport
	notify Notifier
	now    func() time.Time
	auto   *rate.Limiter

	mu             sync.Mutex
	state          State
	models         []string
	selected       string
	lastConfigured string
	configError    string
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets where user notifications go (default: the log).
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// WithClock sets the clock used for timestamps and the retry interval.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates the service and loads its persisted state. A stored
// lastConfigured marks the service as configured until proven otherwise.
func New(local localstore.Storage, api Transport, opts ...Option) *Service {
	s := &Service{
		local:  local,
		api:    api,
		notify: LogNotifier{},
		now:    time.Now,
		auto:   rate.NewLimiter(rate.Every(MinAutoInterval), 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	if v, ok := local.Get(localstore.KeyLastConfigured); ok && v != "" {
		s.lastConfigured = v
		s.state = StateConfigured
	}
	if v, ok := local.Get(localstore.KeySelectedModel); ok {
		s.selected = v
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:         s.state,
		IsConfigured:  s.state == StateConfigured,
		Models:        slices.Clone(s.models),
		SelectedModel: s.selected,
		ConfigError:   s.configError,
	}
	if t, err := time.Parse(time.RFC3339, s.lastConfigured); err == nil {
		snap.LastConfigured = &t
	}
	return snap
}

// IsConfigured reports whether the last configuration attempt succeeded.
func (s *Service) IsConfigured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateConfigured
}

// SelectedModel returns the selected model, or "".
func (s *Service) SelectedModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetSelectedModel changes the selection and persists it. An empty model
// clears the selection and removes the stored key.
func (s *Service) SetSelectedModel(model string) {
	s.mu.Lock()
	s.selected = model
	s.mu.Unlock()

	if model == "" {
		s.local.Remove(localstore.KeySelectedModel)
		return
	}
	s.local.Set(localstore.KeySelectedModel, model)
}

// Configure sends the stored provider settings to the backend. Missing
// settings fail before any network call. On success the timestamp is
// persisted and the model list refreshed; on failure the service is marked
// unconfigured and the user is notified. Safe to call repeatedly.
func (s *Service) Configure(ctx context.Context) error {
	baseURL, _ := s.local.Get(localstore.KeyAPIURL)
	apiKey, _ := s.local.Get(localstore.KeyAPIKey)

	if baseURL == "" || apiKey == "" {
		err := apperr.Precondition(ErrMissingSettings)
		s.mu.Lock()
		s.state = StateUnconfigured
		s.configError = err.Message
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.state = StateConfiguring
	s.mu.Unlock()

	settings := Settings{BaseURL: baseURL, APIKey: apiKey}
	if err := s.configure(ctx, settings); err != nil {
		msg := apperr.Message(err)
		s.mu.Lock()
		s.state = StateUnconfigured
		s.configError = msg
		s.mu.Unlock()

		slog.Error("configuring AI service failed", "base_url", baseURL, "error", err)
		s.notify.Error("Error configuring AI service", msg)
		return err
	}

	var last Settings
	if !localstore.GetJSON(s.local, localstore.KeyLastAISettings, &last) || last != settings {
		s.notify.Success("AI service configured successfully", "Ready to provide cocktail recommendations!")
		if err := localstore.SetJSON(s.local, localstore.KeyLastAISettings, settings); err != nil {
			slog.Warn("storing AI settings failed", "error", err)
		}
	}
	return nil
}

func (s *Service) configure(ctx context.Context, settings Settings) error {
	if err := s.api.Post(ctx, "/ai/configure", settings, nil); err != nil {
		return err
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	s.local.Set(localstore.KeyLastConfigured, stamp)

	s.mu.Lock()
	s.lastConfigured = stamp
	s.state = StateConfigured
	s.mu.Unlock()

	return s.RefreshModels(ctx)
}

// AutoConfigure is the entry point for automatic attempts, such as on
// startup or when the settings view opens. It reports false without doing
// anything when the previous automatic attempt was less than
// MinAutoInterval ago.
func (s *Service) AutoConfigure(ctx context.Context) (bool, error) {
	if !s.auto.AllowN(s.now(), 1) {
		slog.Debug("skipping AI configure, attempted recently")
		return false, nil
	}
	return true, s.Configure(ctx)
}

// RefreshModels fetches the models offered by the provider. A selection that
// is no longer offered is cleared. On failure ConfigError is set and the
// error returned.
func (s *Service) RefreshModels(ctx context.Context) error {
	var models []string
	if err := s.api.Get(ctx, "/ai/models", &models); err != nil {
		s.mu.Lock()
		s.configError = apperr.Message(err)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.models = models
	s.configError = ""
	dangling := s.selected != "" && !slices.Contains(models, s.selected)
	s.mu.Unlock()

	if dangling {
		slog.Info("clearing selected model no longer offered", "model", s.SelectedModel())
		s.SetSelectedModel("")
	}
	return nil
}

// FetchModels is RefreshModels.
func (s *Service) FetchModels(ctx context.Context) error {
	return s.RefreshModels(ctx)
}

// Status asks the backend whether its AI service is initialized.
func (s *Service) Status(ctx context.Context) (bool, error) {
	var out struct {
		Initialized bool `json:"initialized"`
	}
	if err := s.api.Get(ctx, "/ai/service", &out); err != nil {
		return false, err
	}
	return out.Initialized, nil
}
