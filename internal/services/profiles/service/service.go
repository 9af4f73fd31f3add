// Package service implements the profile store on top of the table repo
package service

import (
	"context"
	"time"

	"ladderbot/internal/modkit/repokit"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/metrics"
	"ladderbot/internal/services/profiles/domain"
	"ladderbot/internal/services/profiles/repo"
)

// Config for the profile service
type Config struct {
	// PageSize bounds one ListAllProfiles page
	PageSize int
}

// Service implements domain.StorePort and domain.MigratePort
type Service struct {
	tx     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	cfg    Config
	now    func() time.Time
}

var (
	_ domain.StorePort   = (*Service)(nil)
	_ domain.MigratePort = (*Service)(nil)
)

// New constructs the service
func New(tx repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Service{tx: tx, binder: binder, cfg: cfg, now: time.Now}
}

func (s *Service) repo() repo.Repo { return repokit.MustBind(s.binder, s.tx) }

// Migrate implements domain.MigratePort
func (s *Service) Migrate(ctx context.Context) error {
	return s.repo().Migrate(ctx)
}

// GetProfile implements domain.StorePort
func (s *Service) GetProfile(ctx context.Context, memberID string) (domain.Profile, bool, error) {
	p, ok, err := s.repo().GetProfile(ctx, memberID)
	if err != nil {
		return domain.Profile{}, false, perr.Wrapf(err, perr.ErrorCodeDB, "get profile %s", memberID)
	}
	return p, ok, nil
}

// CreateProfile upserts the member's profile, keeping createdAt of an existing one
func (s *Service) CreateProfile(ctx context.Context, memberID, displayName string, ratingID *int64) error {
	if memberID == "" {
		return perr.InvalidArgf("member id required")
	}
	err := repokit.BindTx(ctx, s.tx, s.binder, func(r repo.Repo) error {
		now := s.now().UTC()
		cur, ok, err := r.GetProfile(ctx, memberID)
		if err != nil {
			return err
		}
		p := domain.Profile{
			MemberID:         memberID,
			DisplayName:      displayName,
			ExternalRatingID: ratingID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if ok && !cur.CreatedAt.IsZero() {
			p.CreatedAt = cur.CreatedAt
		}
		return r.PutProfile(ctx, p)
	})
	return s.recordWrite("create", perr.WrapIf(err, perr.ErrorCodeDB, "create profile"))
}

// RenameProfile updates the display name of an existing profile
func (s *Service) RenameProfile(ctx context.Context, memberID, displayName string) error {
	err := repokit.BindTx(ctx, s.tx, s.binder, func(r repo.Repo) error {
		cur, ok, err := r.GetProfile(ctx, memberID)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "read profile")
		}
		if !ok {
			return perr.NotFoundf("profile %s not found", memberID)
		}
		if cur.DisplayName == displayName {
			return nil
		}
		cur.DisplayName = displayName
		cur.UpdatedAt = s.now().UTC()
		return perr.WrapIf(r.PutProfile(ctx, cur), perr.ErrorCodeDB, "write profile")
	})
	return s.recordWrite("rename", err)
}

// GetLatestSnapshot implements domain.StorePort
func (s *Service) GetLatestSnapshot(ctx context.Context, memberID string) (domain.Snapshot, bool, error) {
	snap, ok, err := s.repo().LatestSnapshot(ctx, memberID)
	if err != nil {
		return domain.Snapshot{}, false, perr.Wrapf(err, perr.ErrorCodeDB, "latest snapshot %s", memberID)
	}
	return snap, ok, nil
}

// AppendSnapshot adds a snapshot that must be strictly newer than the latest one
func (s *Service) AppendSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if snap.MemberID == "" {
		return perr.InvalidArgf("member id required")
	}
	if snap.ObservedAt.IsZero() {
		snap.ObservedAt = s.now()
	}
	err := repokit.BindTx(ctx, s.tx, s.binder, func(r repo.Repo) error {
		last, ok, err := r.LatestSnapshot(ctx, snap.MemberID)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "read latest snapshot")
		}
		if ok && !snap.ObservedAt.After(last.ObservedAt) {
			return perr.Newf(perr.ErrorCodeConflict, "snapshot for %s at %s is not after %s",
				snap.MemberID, snap.ObservedAt.UTC().Format(time.RFC3339Nano), last.ObservedAt.Format(time.RFC3339Nano))
		}
		return perr.WrapIf(r.InsertSnapshot(ctx, snap), perr.ErrorCodeDB, "insert snapshot")
	})
	return s.recordWrite("snapshot", err)
}

// ListAllProfiles walks every page of profiles in member key order
func (s *Service) ListAllProfiles(ctx context.Context) ([]domain.ProfileRef, error) {
	r := s.repo()
	var (
		out    []domain.ProfileRef
		cursor string
	)
	for {
		page, next, err := r.ScanProfiles(ctx, cursor, s.cfg.PageSize)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan profiles")
		}
		out = append(out, page...)
		if next == "" {
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cursor = next
	}
}

func (s *Service) recordWrite(kind string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ProfileWrites.WithLabelValues(kind, outcome).Inc()
	return err
}
