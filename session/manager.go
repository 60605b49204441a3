package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/imgscout/imgscout/auth"
	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/log"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/provider"
	"github.com/imgscout/imgscout/query"
	"github.com/imgscout/imgscout/resolve"
	"github.com/imgscout/imgscout/source"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrSessionNotFound = errors.New("session not found")

	// ErrConfiguration marks problems the user has to fix before searching.
	ErrConfiguration      = errors.New("configuration error")
	ErrMissingCredentials = fmt.Errorf("%w: booru credentials are required, set them with \"imgscout auth set\"", ErrConfiguration)
)

type options struct {
	maxSessions      int
	ttl              time.Duration
	batchSize        int
	cacheSize        int
	providers        []*provider.Provider
	interval         func(providerID string) time.Duration
	transportOptions []network.Option
	remember         func(providerID, q string) error
}

type Option func(*options)

// WithMaxSessions caps how many sessions are alive at once.
func WithMaxSessions(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSessions = n
		}
	}
}

// WithTTL sets how long an untouched session survives.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

func WithResolveCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithProviders replaces the built-in provider set.
func WithProviders(providers []*provider.Provider) Option {
	return func(o *options) { o.providers = providers }
}

// WithInterval sets the throttle interval lookup.
func WithInterval(interval func(providerID string) time.Duration) Option {
	return func(o *options) { o.interval = interval }
}

// WithTransportOptions applies extra options to every provider transport.
func WithTransportOptions(opts ...network.Option) Option {
	return func(o *options) { o.transportOptions = append(o.transportOptions, opts...) }
}

// WithHistory sets where created searches are remembered. nil disables it.
func WithHistory(remember func(providerID, q string) error) Option {
	return func(o *options) { o.remember = remember }
}

// ConfigOptions returns the options derived from the session.* and resolve.* settings.
func ConfigOptions() []Option {
	return []Option{
		WithMaxSessions(viper.GetInt(key.SessionMax)),
		WithTTL(time.Duration(viper.GetInt(key.SessionTTL)) * time.Minute),
		WithBatchSize(viper.GetInt(key.SessionBatchSize)),
		WithResolveCacheSize(viper.GetInt(key.ResolveCacheSize)),
		WithTransportOptions(network.ConfigOptions()...),
	}
}

// Manager owns every live session, one throttled transport per provider
// and the resolver router. It is safe for concurrent use.
type Manager struct {
	// mu pairs the idle timer refresh with Close so a closed session is never re-added.
	mu         sync.Mutex
	sessions   *expirable.LRU[string, *Session]
	providers  map[string]*provider.Provider
	transports map[string]*network.Transport
	router     *resolve.Router
	batchSize  int
	remember   func(providerID, q string) error
}

func NewManager(opts ...Option) *Manager {
	o := options{
		maxSessions: 256,
		ttl:         30 * time.Minute,
		batchSize:   30,
		cacheSize:   512,
		providers:   provider.Builtins(),
		interval: func(id string) time.Duration {
			return time.Duration(viper.GetInt(key.Interval(id))) * time.Millisecond
		},
		remember: query.Remember,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{
		sessions:   expirable.NewLRU[string, *Session](o.maxSessions, nil, o.ttl),
		providers:  make(map[string]*provider.Provider, len(o.providers)),
		transports: make(map[string]*network.Transport, len(o.providers)),
		router:     resolve.NewRouter(o.cacheSize),
		batchSize:  o.batchSize,
		remember:   o.remember,
	}

	for _, p := range o.providers {
		throttle := network.NewThrottle(o.interval(p.ID))
		transportOpts := append([]network.Option{network.WithName(p.ID)}, o.transportOptions...)
		transport := network.NewTransport(throttle, transportOpts...)

		m.providers[p.ID] = p
		m.transports[p.ID] = transport

		if p.CreateResolver != nil {
			m.router.Add(p.CreateResolver(transport))
		}
	}

	return m
}

// Create starts a search and returns its handle.
func (m *Manager) Create(providerID string, q source.Query) (string, error) {
	p, ok := m.providers[providerID]
	if !ok {
		return "", m.unknownProvider(providerID)
	}

	if err := q.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if p.RequiresCredentials() && auth.Booru().IsAbsent() {
		return "", ErrMissingCredentials
	}

	handle := uuid.NewString()
	src := p.CreateSource(m.transports[providerID], q)
	m.sessions.Add(handle, newSession(handle, providerID, q, src))

	logger := log.WithFields(log.Fields{"provider": providerID, "session": handle})
	logger.Info("session created")

	if m.remember != nil {
		if err := m.remember(providerID, q.Text); err != nil {
			logger.WithError(err).Warn("could not remember query")
		}
	}

	return handle, nil
}

// NextBatch returns the next n results of the session. n <= 0 uses the
// configured batch size. Fewer than n items is not an error.
func (m *Manager) NextBatch(ctx context.Context, handle string, n int) ([]source.Item, error) {
	s, ok := m.touch(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, handle)
	}

	if n <= 0 {
		n = m.batchSize
	}
	return s.NextBatch(ctx, n), nil
}

// Resolve returns item with a direct image URL where one can be found.
func (m *Manager) Resolve(ctx context.Context, item source.Item) source.Item {
	return m.router.Resolve(ctx, item)
}

// Session looks a session up without touching its idle timer.
func (m *Manager) Session(handle string) (*Session, bool) {
	return m.sessions.Peek(handle)
}

// Close forgets the session. Closing an unknown handle is a no-op.
func (m *Manager) Close(handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.Remove(handle)
}

func (m *Manager) touch(handle string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions.Get(handle)
	if ok {
		// re-adding restarts the idle timer
		m.sessions.Add(handle, s)
	}
	return s, ok
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

func (m *Manager) unknownProvider(id string) error {
	ids := lo.Keys(m.providers)
	closest, best := "", -1
	for _, candidate := range ids {
		d := levenshtein.Distance(id, candidate)
		if best == -1 || d < best || (d == best && candidate < closest) {
			closest, best = candidate, d
		}
	}

	if best >= 0 && best <= 3 {
		return fmt.Errorf("%w: %q, did you mean %q?", ErrUnknownProvider, id, closest)
	}
	return fmt.Errorf("%w: %q", ErrUnknownProvider, id)
}
