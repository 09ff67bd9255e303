package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/atomnext-intake/internal/observability/metrics"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

// KeyPrefix namespaces persisted contexts in a shared backing store.
const KeyPrefix = "intake:context:"

// ContextKey returns the storage key for a visitor.
func ContextKey(visitorID string) string {
	return KeyPrefix + visitorID
}

// ContextStore persists a single UserContext under one key. It never
// surfaces storage failures to callers; the in-memory context stays the
// source of truth and only durability is lost.
type ContextStore struct {
	kv      KeyValue
	key     string
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.IntakeMetrics
}

// StoreOption customizes a ContextStore.
type StoreOption func(*ContextStore)

// WithStoreTimeout bounds every backing-store call.
func WithStoreTimeout(d time.Duration) StoreOption {
	return func(s *ContextStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithStoreMetrics counts swallowed failures.
func WithStoreMetrics(m *metrics.IntakeMetrics) StoreOption {
	return func(s *ContextStore) { s.metrics = m }
}

// NewContextStore binds a store to one key. A nil kv behaves like a
// backing store that is absent.
func NewContextStore(kv KeyValue, key string, logger *logging.Logger, opts ...StoreOption) *ContextStore {
	if logger == nil {
		logger = logging.Default()
	}
	s := &ContextStore{
		kv:      kv,
		key:     key,
		timeout: 2 * time.Second,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted context or an empty one.
func (s *ContextStore) Load(ctx context.Context) UserContext {
	uc, err := s.read(ctx)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("intake: context load failed, starting empty", "key", s.key, "error", err)
			s.metrics.ObserveStorageFailure("load")
		}
		return UserContext{}
	}
	return uc
}

// Save writes uc under the store's key. Failures are logged and dropped.
func (s *ContextStore) Save(ctx context.Context, uc UserContext) {
	if err := s.write(ctx, uc); err != nil {
		s.logger.Warn("intake: context save failed, keeping in-memory copy", "key", s.key, "error", err)
		s.metrics.ObserveStorageFailure("save")
	}
}

func (s *ContextStore) read(ctx context.Context) (uc UserContext, err error) {
	if s.kv == nil {
		return UserContext{}, ErrStorageUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStorageUnavailable, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return UserContext{}, err
		}
		return UserContext{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if raw == "" {
		return UserContext{}, ErrKeyNotFound
	}
	if err := json.Unmarshal([]byte(raw), &uc); err != nil {
		return UserContext{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return uc, nil
}

func (s *ContextStore) write(ctx context.Context, uc UserContext) (err error) {
	if s.kv == nil {
		return ErrStorageUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStorageUnavailable, r)
		}
	}()

	if uc.CapturedAt.IsZero() {
		uc.CapturedAt = time.Now().UTC()
	}
	data, err := json.Marshal(uc)
	if err != nil {
		return fmt.Errorf("intake: marshal context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
