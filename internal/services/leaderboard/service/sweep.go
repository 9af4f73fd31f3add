package service

import (
	"context"
	"math"
	"strings"

	"ladderbot/internal/core/normalize"
	"ladderbot/internal/core/similarity"
	"ladderbot/internal/platform/chat"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/logger"
	"ladderbot/internal/platform/metrics"
	"ladderbot/internal/services/leaderboard/domain"
	profdom "ladderbot/internal/services/profiles/domain"
)

// sweepGuild refreshes or bootstraps every member of g and posts the
// unsuccessful list to the admin channel
func (s *Service) sweepGuild(ctx context.Context, g chat.Guild, seen map[string]bool) domain.Report {
	log := logger.NamedC(ctx, "leaderboard").With().Str("guild_id", g.ID).Logger()
	rep := domain.Report{}

	members, err := s.chat.Members(ctx, g.ID)
	if err != nil {
		log.Error().Err(err).Msg("sweep: list members failed")
		rep.Failures = append(rep.Failures, domain.Failure{Name: "guild " + g.Name, Op: "list_members", Err: err.Error()})
		metrics.SweepMembers.WithLabelValues("failed").Inc()
		return rep
	}

	for _, m := range members {
		if ctx.Err() != nil {
			break
		}
		if m.Bot || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		rep.Members++

		result, err := s.member(ctx, m, &rep)
		if err != nil {
			result = "failed"
			rep.Failures = append(rep.Failures, domain.Failure{
				MemberID: m.ID,
				Name:     m.DisplayName(),
				Op:       perr.OpOf(err),
				Err:      err.Error(),
			})
			log.Warn().Err(err).Str("member_id", m.ID).Str("op", perr.OpOf(err)).Msg("sweep: member failed")
		}
		metrics.SweepMembers.WithLabelValues(result).Inc()
	}

	if msg := unsuccessfulReport(rep); msg != "" {
		s.post(ctx, g, s.cfg.AdminChannel, msg)
	}
	return rep
}

// member processes one member and returns its metrics result label
func (s *Service) member(ctx context.Context, m chat.Member, rep *domain.Report) (string, error) {
	p, ok, err := s.store.GetProfile(ctx, m.ID)
	if err != nil {
		return "", withOp(err, "get_profile")
	}
	if !ok {
		return s.bootstrap(ctx, m, rep)
	}
	if name := normalize.Clean(m.DisplayName()); name != "" && name != p.DisplayName {
		if err := s.store.RenameProfile(ctx, m.ID, name); err != nil {
			return "", withOp(err, "rename")
		}
		rep.Renamed++
	}
	if !p.HasRating() {
		return "skipped", nil
	}
	return s.refresh(ctx, m, p, rep)
}

// refresh appends a snapshot when the rating moved; NaN and missing ratings never land
func (s *Service) refresh(ctx context.Context, m chat.Member, p profdom.Profile, rep *domain.Report) (string, error) {
	id := *p.ExternalRatingID
	rating, ok, err := s.ratings.RatingByID(ctx, id)
	if err != nil {
		return "", withOp(err, "rating")
	}
	stats, err := s.ratings.Stats(ctx, id)
	if err != nil {
		return "", withOp(err, "stats")
	}

	if !ok || math.IsNaN(rating) {
		return "skipped", nil
	}
	last, has, err := s.store.GetLatestSnapshot(ctx, m.ID)
	if err != nil {
		return "", withOp(err, "latest_snapshot")
	}
	if has && last.Rating == rating {
		return "unchanged", nil
	}
	err = s.store.AppendSnapshot(ctx, profdom.Snapshot{
		MemberID:     m.ID,
		Rating:       rating,
		HalfLife:     stats.HalfLife,
		TotalMatches: stats.TotalMatches,
		ObservedAt:   s.now().UTC(),
	})
	if err != nil {
		return "", withOp(err, "append_snapshot")
	}
	rep.Snapshots++
	return "refreshed", nil
}

// bootstrap creates a profile from the member's nickname, linking the first
// search hit only when the names are close enough
func (s *Service) bootstrap(ctx context.Context, m chat.Member, rep *domain.Report) (string, error) {
	name := normalize.Clean(m.Nick)
	if name == "" {
		rep.Unsuccessful = append(rep.Unsuccessful, m.Username)
		return "unsuccessful", nil
	}
	hits, err := s.ratings.SearchByName(ctx, name)
	if err != nil {
		return "", withOp(err, "search")
	}

	var ratingID *int64
	if len(hits) > 0 {
		score := similarity.Similarity(normalize.Name(name), normalize.Name(hits[0].FullName))
		if similarity.Accept(score) {
			ratingID = profdom.RatingID(hits[0].ExternalID)
		}
		logger.NamedC(ctx, "leaderboard").Debug().
			Str("member_id", m.ID).Str("hit", hits[0].FullName).Float64("score", score).
			Msg("sweep: bootstrap match scored")
	}
	if err := s.store.CreateProfile(ctx, m.ID, name, ratingID); err != nil {
		return "", withOp(err, "create_profile")
	}
	if ratingID == nil {
		rep.Unmatched++
		return "unmatched", nil
	}
	rep.Bootstrapped++
	return "bootstrapped", nil
}

func unsuccessfulReport(rep domain.Report) string {
	if len(rep.Unsuccessful) == 0 && len(rep.Failures) == 0 {
		return ""
	}
	var b strings.Builder
	if len(rep.Unsuccessful) > 0 {
		b.WriteString("Unsuccessful profile creations:\n")
		b.WriteString(strings.Join(rep.Unsuccessful, "\n"))
	}
	if len(rep.Failures) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Sweep failures:")
		for _, f := range rep.Failures {
			b.WriteString("\n")
			b.WriteString(f.Name)
			if f.Op != "" {
				b.WriteString(" (" + f.Op + ")")
			}
		}
	}
	return b.String()
}

// withOp labels err with op, wrapping errors that carry no code yet
func withOp(err error, op string) error {
	if _, ok := perr.As(err); !ok {
		err = perr.Wrap(err, perr.ErrorCodeUnknown, op)
	}
	return perr.WithOp(err, op)
}
