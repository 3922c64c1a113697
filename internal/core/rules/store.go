package rules

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/logger"
)

// Snapshot is an immutable compiled rule set
type Snapshot struct {
	Version  uint64    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
	Source   string    `json:"source"`
	Rules    []Rule    `json:"rules"`
	Stats    Stats     `json:"stats"`
	Cyclic   []string  `json:"cyclic,omitempty"`

	matcher *Matcher
}

// Matcher returns the compiled matcher, nil safe
func (s *Snapshot) Matcher() *Matcher {
	if s == nil {
		return nil
	}
	return s.matcher
}

// Len reports the number of active rules
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}

// Store owns the active snapshot
type Store struct {
	src        Source
	prec       Class
	allowEmpty bool
	log        logger.Logger
	now        func() time.Time

	mu      sync.Mutex // serializes loads
	version uint64
	cur     atomic.Pointer[Snapshot]
}

// Option configures a Store
type Option func(*Store)

// WithPrecedence picks the class that wins when both classes define a term
func WithPrecedence(c Class) Option { return func(s *Store) { s.prec = c } }

// WithAllowEmpty accepts a source with no usable rules
func WithAllowEmpty(ok bool) Option { return func(s *Store) { s.allowEmpty = ok } }

// WithLogger overrides the store logger
func WithLogger(l logger.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// NewStore creates a Store reading from src. Nothing is loaded until Load
func NewStore(src Source, opts ...Option) *Store {
	s := &Store{
		src:  src,
		prec: Typo,
		log:  *logger.Named("rules"),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns the active snapshot or nil before the first successful load
func (s *Store) Current() *Snapshot { return s.cur.Load() }

// Load fetches and activates the first snapshot. Callers treat its error as fatal
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	return s.swap(ctx, "load")
}

// Reload fetches a new snapshot and swaps it in. On error the active snapshot is kept
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	return s.swap(ctx, "reload")
}

func (s *Store) swap(ctx context.Context, op string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.src.Fetch(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("op", op).Str("source", s.src.Name()).Msg("rule fetch failed")
		return nil, perr.WithOp(perr.Wrapf(err, perr.CodeOf(err), "fetch rules from %s", s.src.Name()), "rules."+op)
	}

	c := Compile(raw, s.prec)
	if len(c.Rules) == 0 {
		if !s.allowEmpty {
			return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "rule source %s returned no usable rules", s.src.Name())
		}
		s.log.Warn().Str("source", s.src.Name()).Msg("activating empty rule set")
	}
	if len(c.Cyclic) > 0 {
		s.log.Warn().Strs("terms", c.Cyclic).Msg("dropped cyclic rules")
	}

	s.version++
	snap := &Snapshot{
		Version:  s.version,
		LoadedAt: s.now().UTC(),
		Source:   s.src.Name(),
		Rules:    c.Rules,
		Stats:    c.Stats,
		Cyclic:   c.Cyclic,
		matcher:  c.Matcher,
	}
	s.cur.Store(snap)

	s.log.Info().
		Str("op", op).
		Str("source", snap.Source).
		Uint64("version", snap.Version).
		Int("rules", snap.Stats.Kept).
		Int("fetched", snap.Stats.Fetched).
		Int("shadowed", snap.Stats.Shadowed).
		Int("chained", snap.Stats.Chained).
		Msg("rule snapshot active")
	return snap, nil
}

// Watch reloads every interval until ctx is done. Failed reloads are logged and keep the
// active snapshot
func (s *Store) Watch(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn().Err(err).Msg("periodic rule reload failed")
			}
		}
	}
}
