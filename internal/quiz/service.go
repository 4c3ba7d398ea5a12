// internal/quiz/service.go
//
// Service is the single entry point the request layer calls into.
// It owns the territory catalog, the session store and the random source,
// and serialises every operation on the current game behind one mutex so
// read-modify-write sequences never interleave.
//
// Policy: one active game per process. Start replaces it unconditionally.

package quiz

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/robalobadob/borders/apps/go-server/internal/daily"
	"github.com/robalobadob/borders/apps/go-server/internal/game"
	"github.com/robalobadob/borders/apps/go-server/internal/store"
	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

// Service runs the border quiz over one catalog.
type Service struct {
	mu      sync.Mutex // serialises access to the current game and rng
	catalog *territory.Catalog
	store   store.Store
	rng     game.Rand
	salt    string
}

// Option configures a Service.
type Option func(*Service)

// WithRand replaces the time-seeded random source.
func WithRand(r game.Rand) Option { return func(s *Service) { s.rng = r } }

// WithDailySalt sets the salt used to derive daily targets.
func WithDailySalt(salt string) Option { return func(s *Service) { s.salt = salt } }

// NewService wires a catalog and a store into a Service.
func NewService(cat *territory.Catalog, st store.Store, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		store:   st,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Catalog exposes the read-only catalog.
func (s *Service) Catalog() *territory.Catalog { return s.catalog }

// Start begins a new game on a random eligible target.
func (s *Service) Start(ctx context.Context) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := game.PickTarget(s.catalog.Eligible(game.MinBorders), s.rng)
	if err != nil {
		return game.View{}, err
	}
	return s.begin(ctx, target)
}

// StartDaily begins a new game on the target assigned to date.
// Field order is still shuffled per game.
func (s *Service) StartDaily(ctx context.Context, date time.Time) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cands := s.catalog.Eligible(game.MinBorders)
	if len(cands) == 0 {
		return game.View{}, game.ErrNoEligibleTargets
	}
	return s.begin(ctx, cands[daily.Index(date, s.salt, len(cands))])
}

func (s *Service) begin(ctx context.Context, target territory.Territory) (game.View, error) {
	g := game.New(target, s.catalog, s.rng)
	if err := s.store.Save(ctx, g); err != nil {
		return game.View{}, err
	}
	return g.View(), nil
}

// Current returns the sanitized current game.
func (s *Service) Current(ctx context.Context) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.current(ctx)
	if err != nil {
		return game.View{}, err
	}
	return g.View(), nil
}

// UpdateField applies input to one field and returns the sanitized game.
func (s *Service) UpdateField(ctx context.Context, id int, input string) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.current(ctx)
	if err != nil {
		return game.View{}, err
	}
	if err := g.Update(id, input); err != nil {
		return game.View{}, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return game.View{}, err
	}
	return g.View(), nil
}

// Reveal discloses every answer of the current game.
func (s *Service) Reveal(ctx context.Context) (game.Reveal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.current(ctx)
	if err != nil {
		return game.Reveal{}, err
	}
	return g.Reveal(), nil
}

// Hint returns a clue about an unsolved field, or an informational text
// when there is no game or nothing left to solve.
func (s *Service) Hint(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.current(ctx)
	if errors.Is(err, game.ErrNoActiveGame) {
		return game.HintNoGame, nil
	}
	if err != nil {
		return "", err
	}
	return g.Hint(s.rng), nil
}

// Suggest autocompletes territory names. The catalog is immutable, so no lock.
func (s *Service) Suggest(query string, limit int) []string {
	return s.catalog.Suggest(query, limit)
}

func (s *Service) current(ctx context.Context) (*game.Game, error) {
	g, err := s.store.Current(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, game.ErrNoActiveGame
	}
	return g, err
}
