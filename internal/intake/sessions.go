package intake

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

// Session is one visitor's wizard.
//
// The browser performs the page change itself from the action response,
// so a due navigation is only recorded here, never replayed to a later
// request.
type Session struct {
	VisitorID  string
	Controller *Controller
	Dialog     *Dialog

	logger *logging.Logger

	mu          sync.Mutex
	lastHandoff string
}

// Navigate notes that the committed handoff to target has come due.
func (s *Session) Navigate(target string) {
	s.mu.Lock()
	s.lastHandoff = target
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Debug("intake: handoff due", "target", target)
	}
}

// LastHandoff is the most recent handoff that has come due, if any.
func (s *Session) LastHandoff() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHandoff
}

// SessionsConfig wires the per-visitor controllers.
type SessionsConfig struct {
	KV           KeyValue
	Endpoint     string
	MaxSessions  int
	StoreTimeout time.Duration
	Delays       Delays
	Destinations Destinations
	Clock        Clock
	Logger       *logging.Logger
	Metrics      *metrics.IntakeMetrics
}

// Sessions keeps a bounded set of live controllers keyed by visitor id.
// Evicted sessions have their timers stopped; their context survives in
// the backing store and is reloaded on the visitor's next request.
type Sessions struct {
	cfg     SessionsConfig
	encoder *Encoder

	mu    sync.Mutex
	cache *lru.Cache[string, *Session]
}

// NewSessions builds the registry.
func NewSessions(cfg SessionsConfig) (*Sessions, error) {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 10000
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "/intake"
	}
	cfg.Delays = cfg.Delays.withDefaults()
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	cache, err := lru.NewWithEvict(cfg.MaxSessions, func(_ string, s *Session) {
		s.Controller.Stop()
	})
	if err != nil {
		return nil, fmt.Errorf("intake: session cache: %w", err)
	}
	return &Sessions{
		cfg:     cfg,
		encoder: NewEncoder(cfg.Destinations),
		cache:   cache,
	}, nil
}

// Get returns the visitor's session, creating it on first use.
func (s *Sessions) Get(ctx context.Context, visitorID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(visitorID); ok {
		return sess
	}

	store := NewContextStore(s.cfg.KV, ContextKey(visitorID), s.cfg.Logger,
		WithStoreTimeout(s.cfg.StoreTimeout),
		WithStoreMetrics(s.cfg.Metrics),
	)
	logger := s.cfg.Logger.With("visitor_id", visitorID)
	sess := &Session{
		VisitorID: visitorID,
		Dialog:    NewDialog(s.cfg.Endpoint),
		logger:    logger,
	}
	sess.Controller = NewController(ctx, store, sess.Dialog,
		WithClock(s.cfg.Clock),
		WithDelays(s.cfg.Delays),
		WithEncoder(s.encoder),
		WithNavigator(sess),
		WithLogger(logger),
		WithMetrics(s.cfg.Metrics),
	)
	s.cache.Add(visitorID, sess)
	return sess
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}

// Close stops the advance and focus timers of every live session.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
}
