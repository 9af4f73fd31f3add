// Package service implements the rating sweep and leaderboard build
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ladderbot/internal/platform/chat"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/logger"
	"ladderbot/internal/platform/metrics"
	"ladderbot/internal/services/leaderboard/domain"
	profdom "ladderbot/internal/services/profiles/domain"
)

// Config for the sweep and board
type Config struct {
	Thresholds         domain.Thresholds
	AdminChannel       string
	LeaderboardChannel string
	// Concurrency bounds parallel snapshot reads during the board build
	Concurrency int
}

// Service implements domain.SweeperPort and domain.BoardPort
type Service struct {
	chat    chat.Session
	ratings domain.RatingSource
	store   profdom.StorePort
	cfg     Config

	now   func() time.Time
	newID func() string

	running atomic.Bool
	mu      sync.Mutex
	last    *domain.Report
}

var (
	_ domain.SweeperPort = (*Service)(nil)
	_ domain.BoardPort   = (*Service)(nil)
)

// New constructs the leaderboard service
func New(cs chat.Session, ratings domain.RatingSource, store profdom.StorePort, cfg Config) *Service {
	if cs == nil || ratings == nil || store == nil {
		panic("leaderboard.Service requires a chat session, a rating source and a store")
	}
	if cfg.Thresholds == (domain.Thresholds{}) {
		cfg.Thresholds = domain.DefaultThresholds()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.AdminChannel == "" {
		cfg.AdminChannel = "admin-mods"
	}
	if cfg.LeaderboardChannel == "" {
		cfg.LeaderboardChannel = "dupr-local-leaderboard"
	}
	return &Service{chat: cs, ratings: ratings, store: store, cfg: cfg, now: time.Now, newID: uuid.NewString}
}

// Running reports whether a sweep is in progress
func (s *Service) Running() bool { return s.running.Load() }

// LastReport returns the most recent finished sweep, if any
func (s *Service) LastReport() (domain.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return domain.Report{}, false
	}
	return *s.last, true
}

// Sweep implements domain.SweeperPort
func (s *Service) Sweep(ctx context.Context) (domain.Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.SweepRuns.WithLabelValues("rejected").Inc()
		return domain.Report{}, perr.Conflictf("sweep already running")
	}
	defer s.running.Store(false)
	return s.run(ctx, s.newID())
}

// Start implements domain.SweeperPort. The sweep outlives ctx cancellation
// but keeps its values.
func (s *Service) Start(ctx context.Context) (string, error) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.SweepRuns.WithLabelValues("rejected").Inc()
		return "", perr.Conflictf("sweep already running")
	}
	runID := s.newID()
	bg := context.WithoutCancel(ctx)
	go func() {
		defer s.running.Store(false)
		if _, err := s.run(bg, runID); err != nil {
			logger.NamedC(logger.WithRun(bg, runID), "leaderboard").Error().Err(err).Msg("sweep: background run failed")
		}
	}()
	return runID, nil
}

func (s *Service) run(ctx context.Context, runID string) (domain.Report, error) {
	ctx = logger.WithRun(ctx, runID)
	log := logger.NamedC(ctx, "leaderboard")
	start := s.now()
	rep := domain.Report{RunID: runID, StartedAt: start.UTC(), Unsuccessful: []string{}, Failures: []domain.Failure{}}

	log.Info().Msg("sweep: start")
	err := s.sweep(ctx, &rep)
	rep.Duration = s.now().Sub(start)
	metrics.SweepDuration.Observe(rep.Duration.Seconds())

	if err != nil {
		metrics.SweepRuns.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("sweep: failed")
		return rep, err
	}
	metrics.SweepRuns.WithLabelValues("ok").Inc()
	log.Info().
		Int("guilds", rep.Guilds).
		Int("members", rep.Members).
		Int("snapshots", rep.Snapshots).
		Int("bootstrapped", rep.Bootstrapped).
		Int("failures", len(rep.Failures)).
		Dur("took", rep.Duration).
		Msg("sweep: done")

	s.mu.Lock()
	s.last = &rep
	s.mu.Unlock()
	return rep, nil
}

func (s *Service) sweep(ctx context.Context, rep *domain.Report) error {
	guilds, err := s.chat.Guilds(ctx)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "list guilds")
	}
	rep.Guilds = len(guilds)

	seen := map[string]bool{}
	for _, g := range guilds {
		if err := ctx.Err(); err != nil {
			return err
		}
		guildRep := s.sweepGuild(ctx, g, seen)
		rep.Members += guildRep.Members
		rep.Snapshots += guildRep.Snapshots
		rep.Renamed += guildRep.Renamed
		rep.Bootstrapped += guildRep.Bootstrapped
		rep.Unmatched += guildRep.Unmatched
		rep.Unsuccessful = append(rep.Unsuccessful, guildRep.Unsuccessful...)
		rep.Failures = append(rep.Failures, guildRep.Failures...)
	}

	board, err := s.Board(ctx)
	if err != nil {
		return withOp(err, "board")
	}
	rep.Board = board
	msg := Render(board, s.cfg.Thresholds)
	for _, g := range guilds {
		s.post(ctx, g, s.cfg.LeaderboardChannel, msg)
	}
	return nil
}

// post is best effort; a missing channel is logged and skipped
func (s *Service) post(ctx context.Context, g chat.Guild, channel, content string) {
	if err := s.chat.Post(ctx, g.ID, channel, content); err != nil {
		ev := logger.NamedC(ctx, "leaderboard").Warn()
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			ev = logger.NamedC(ctx, "leaderboard").Info()
		}
		ev.Err(err).Str("guild_id", g.ID).Str("channel", channel).Msg("sweep: report post skipped")
	}
}
