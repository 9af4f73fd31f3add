package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"ladderbot/internal/platform/logger"
	"ladderbot/internal/services/leaderboard/domain"
	profdom "ladderbot/internal/services/profiles/domain"
)

const boardHeader = "**DUPR leaderboard:**\n"

// Board loads every profile's latest snapshot and ranks them
func (s *Service) Board(ctx context.Context) (domain.Board, error) {
	entries, err := s.collect(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	b := Build(entries, s.cfg.Thresholds)
	b.GeneratedAt = s.now().UTC()
	return b, nil
}

// collect fetches latest snapshots with bounded concurrency. Per profile read
// errors are logged and the profile is left off the board.
func (s *Service) collect(ctx context.Context) ([]domain.Entry, error) {
	refs, err := s.store.ListAllProfiles(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.NamedC(ctx, "leaderboard")

	var (
		mu  sync.Mutex
		out = make([]domain.Entry, 0, len(refs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, ref := range refs {
		if !hasRating(ref) {
			continue
		}
		g.Go(func() error {
			snap, ok, err := s.store.GetLatestSnapshot(gctx, ref.MemberID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Str("member_id", ref.MemberID).Msg("leaderboard: latest snapshot failed")
				return nil
			}
			if !ok {
				return nil
			}
			mu.Lock()
			out = append(out, domain.Entry{
				MemberID:     ref.MemberID,
				Name:         ref.DisplayName,
				Rating:       snap.Rating,
				HalfLife:     snap.HalfLife,
				TotalMatches: snap.TotalMatches,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func hasRating(ref profdom.ProfileRef) bool { return ref.ExternalRatingID != nil }

// Build filters, ranks and buckets entries
func Build(entries []domain.Entry, th domain.Thresholds) domain.Board {
	kept := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.HalfLife >= th.MinHalfLife && e.TotalMatches >= th.MinMatches {
			kept = append(kept, e)
		}
	}
	slices.SortStableFunc(kept, func(a, b domain.Entry) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.MemberID, b.MemberID)
	})

	high := fmtThreshold(th.High)
	mid := fmtThreshold(th.Mid)
	buckets := []domain.Bucket{
		{Title: fmt.Sprintf("Top %d Players %s+", th.PerBucket, high), Entries: []domain.Entry{}},
		{Title: fmt.Sprintf("Top %d Players %s-%s", th.PerBucket, mid, high), Entries: []domain.Entry{}},
		{Title: fmt.Sprintf("Top %d Players < %s", th.PerBucket, mid), Entries: []domain.Entry{}},
	}
	for _, e := range kept {
		i := 2
		switch {
		case e.Rating > th.High:
			i = 0
		case e.Rating > th.Mid:
			i = 1
		}
		if len(buckets[i].Entries) < th.PerBucket {
			buckets[i].Entries = append(buckets[i].Entries, e)
		}
	}
	return domain.Board{Buckets: buckets}
}

// Render formats the board as the chat post, body truncated to th.MaxChars runes
func Render(b domain.Board, th domain.Thresholds) string {
	sections := make([]string, 0, len(b.Buckets))
	for _, bk := range b.Buckets {
		lines := make([]string, 0, len(bk.Entries))
		for _, e := range bk.Entries {
			lines = append(lines, e.Name+": "+strconv.FormatFloat(e.Rating, 'f', -1, 64))
		}
		sections = append(sections, "**"+bk.Title+"**\n"+strings.Join(lines, "\n"))
	}
	body := truncate(strings.Join(sections, "\n\n"), th.MaxChars)
	explanation := fmt.Sprintf("`Must have greater than %d matches and a half life greater than %s.`",
		th.MinMatches, strconv.FormatFloat(th.MinHalfLife, 'f', -1, 64))
	return boardHeader + explanation + "\n\n" + body
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func fmtThreshold(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
