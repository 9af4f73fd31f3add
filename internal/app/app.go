package app

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/chi/v5"

	"ladderbot/internal/adapters/discord"
	"ladderbot/internal/adapters/dupr"
	"ladderbot/internal/modkit"
	"ladderbot/internal/modkit/module"
	"ladderbot/internal/platform/chat"
	"ladderbot/internal/platform/config"
	"ladderbot/internal/platform/logger"
	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/platform/store"
	"ladderbot/internal/services/api"
	lbdom "ladderbot/internal/services/leaderboard/domain"
	lbmod "ladderbot/internal/services/leaderboard/module"
	profdom "ladderbot/internal/services/profiles/domain"
	profmod "ladderbot/internal/services/profiles/module"
	verifydom "ladderbot/internal/services/verify/domain"
	verifymod "ladderbot/internal/services/verify/module"
)

// ChatSession is the chat adapter the app owns for its whole lifetime
type ChatSession interface {
	chat.Session
	Open() error
	Close() error
	OnMemberJoin(ctx context.Context, h chat.JoinHandler)
}

// seams
var (
	newChat = func(token string) (ChatSession, error) { return discord.New(token) }
	now     = time.Now
)

// App holds the opened resources and the wired modules
type App struct {
	cfg     Config
	root    config.Conf
	log     logger.Logger
	store   *store.Store
	chat    ChatSession
	ratings *dupr.Client

	profiles *profmod.Module
	verify   *verifymod.Module
	board    *lbmod.Module
	started  time.Time
}

// Open brings up storage, migrates the profile table, connects the chat
// gateway and wires the modules. Close releases whatever Open acquired.
func Open(ctx context.Context, root config.Conf, cfg Config) (a *App, err error) {
	a = &App{cfg: cfg, root: root, log: *logger.Named("app"), started: now()}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
			a = nil
		}
	}()

	a.store, err = store.Open(ctx, cfg.StoreOptions(), store.WithLogger(*logger.Get()))
	if err != nil {
		return nil, err
	}
	deps := modkit.Deps{Cfg: root}.FromStore(a.store)

	a.profiles = profmod.New(deps, cfg.Profiles)
	if err := module.MustPortsOf[profdom.MigratePort](a.profiles).Migrate(ctx); err != nil {
		return nil, err
	}

	cs, err := newChat(cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	if err := cs.Open(); err != nil {
		return nil, err
	}
	a.chat = cs
	deps.Chat = a.chat

	a.ratings = dupr.NewClient(cfg.DUPROptions())
	profiles := module.MustPortsOf[profdom.StorePort](a.profiles)

	a.verify = verifymod.New(deps, cfg.Verify,
		modkit.WithPorts(verifydom.Ports{Searcher: a.ratings, Profiles: profiles}))
	a.board = lbmod.New(deps, cfg.Leaderboard,
		modkit.WithPorts(lbdom.Ports{Ratings: a.ratings, Store: profiles}))

	a.log.Info().
		Str("driver", cfg.Store.Driver).
		Bool("test_mode", cfg.Verify.TestMode).
		Msg("app: opened")
	return a, nil
}

// Close releases the chat session and the store
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.chat != nil {
		errs = append(errs, a.chat.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close(ctx))
	}
	return errors.Join(errs...)
}

// Sweeper returns the serialized sweep port
func (a *App) Sweeper() lbdom.SweeperPort { return module.MustPortsOf[lbdom.SweeperPort](a.board) }

// Run subscribes to member joins, starts the startup sweep in the background,
// and serves the ops API until ctx is done
func (a *App) Run(ctx context.Context) error {
	a.chat.OnMemberJoin(ctx, a.verify.Ports().(verifymod.Ports).OnJoin)

	if runID, err := a.Sweeper().Start(ctx); err != nil {
		a.log.Warn().Err(err).Msg("app: startup sweep not started")
	} else {
		a.log.Info().Str("run_id", runID).Msg("app: startup sweep started")
	}

	srv := phttp.NewServer(a.cfg.Ops.Addr, func(m *chi.Mux) {
		api.Mount(phttp.AdaptChi(m), api.Options{
			Deps:           modkit.Deps{Cfg: a.root, Chat: a.chat}.FromStore(a.store),
			Board:          module.MustPortsOf[lbdom.BoardPort](a.board),
			Sweeper:        a.Sweeper(),
			CORSOrigins:    a.cfg.Ops.CORSOrigins,
			EnableProfiler: a.cfg.Ops.Profiler,
		})
	})
	return srv.Run(ctx, a.cfg.Ops.Grace)
}

// SweepOnce runs one sweep in the foreground
func (a *App) SweepOnce(ctx context.Context) (lbdom.Report, error) {
	return a.Sweeper().Sweep(ctx)
}
