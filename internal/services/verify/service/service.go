// Package service runs the member verification conversation
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ladderbot/internal/core/normalize"
	"ladderbot/internal/platform/chat"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/logger"
	"ladderbot/internal/platform/metrics"
	"ladderbot/internal/services/verify/domain"
)

// Config controls one conversation
type Config struct {
	// ReplyTimeout bounds every individual wait for a reply
	ReplyTimeout time.Duration
	// MaxAttempts caps retries; 0 means unbounded
	MaxAttempts int
	// EscalateIncomplete posts timed-out and given-up flows to AdminChannel
	EscalateIncomplete bool
	AdminChannel       string
	Roles              domain.RoleTable
	FollowUps          []string
}

// Service implements domain.FlowPort
type Service struct {
	chat     chat.Session
	search   domain.Searcher
	profiles domain.ProfileWriter
	cfg      Config
	newID    func() string
}

var _ domain.FlowPort = (*Service)(nil)

// New constructs the verification service
func New(cs chat.Session, search domain.Searcher, profiles domain.ProfileWriter, cfg Config) *Service {
	if cs == nil || search == nil || profiles == nil {
		panic("verify.Service requires a chat session, a searcher and a profile writer")
	}
	if cfg.ReplyTimeout <= 0 {
		cfg.ReplyTimeout = 5 * time.Minute
	}
	if cfg.AdminChannel == "" {
		cfg.AdminChannel = "admin-mods"
	}
	return &Service{chat: cs, search: search, profiles: profiles, cfg: cfg, newID: uuid.NewString}
}

// HandleJoin is the chat.JoinHandler for new members
func (s *Service) HandleJoin(ctx context.Context, m chat.Member) {
	res := s.Verify(ctx, m)
	l := logger.NamedC(logger.WithFlow(ctx, res.FlowID, m.GuildID, m.ID), "verify")
	ev := l.Info()
	if res.Err != nil {
		ev = l.Warn().Err(res.Err)
	}
	ev.Str("state", res.State.String()).Int("attempts", res.Attempts).Msg("verify: flow finished")
}

type flow struct {
	s   *Service
	m   chat.Member
	dm  chat.DM
	log *logger.Logger

	name     string
	hits     []domain.Candidate
	chosen   *domain.Candidate
	attempts int
	welcomed bool
	// searched is set once a name lookup succeeded
	searched bool

	// escalate marks a terminal state that should reach the admin channel
	escalate string
	// quiet suppresses member-facing messages after the parent ctx is gone
	quiet   bool
	answers []domain.Answer
	err     error
}

type handler func(f *flow, ctx context.Context) domain.State

var handlers = map[domain.State]handler{
	domain.AwaitingName: (*flow).awaitName,
	domain.Searching:    (*flow).searching,
	domain.NoMatch:      (*flow).noMatch,
	domain.OneMatch:     (*flow).oneMatch,
	domain.Confirming:   (*flow).confirming,
	domain.MultiMatch:   (*flow).multiMatch,
	domain.Retrying:     (*flow).retrying,
}

// Verify runs one conversation with m until it reaches a terminal state
func (s *Service) Verify(ctx context.Context, m chat.Member) domain.Result {
	flowID := s.newID()
	ctx = logger.WithFlow(ctx, flowID, m.GuildID, m.ID)
	f := &flow{s: s, m: m, log: logger.NamedC(ctx, "verify")}

	metrics.VerifyActive.Inc()
	defer metrics.VerifyActive.Dec()

	state := f.enter(ctx)
	for !state.Terminal() {
		h, ok := handlers[state]
		if !ok {
			f.err = perr.Newf(perr.ErrorCodeUnknown, "no handler for state %s", state)
			state = domain.Failed
			break
		}
		f.log.Debug().Str("state", state.String()).Msg("verify: enter state")
		state = h(f, ctx)
	}
	f.finish(ctx, state)

	metrics.VerifyFlows.WithLabelValues(state.String()).Inc()
	return domain.Result{
		FlowID:   flowID,
		State:    state,
		Chosen:   f.chosen,
		Attempts: f.attempts,
		Answers:  f.answers,
		Err:      f.err,
	}
}

// enter grants the unverified role and opens the DM; neither failure reaches the member
func (f *flow) enter(ctx context.Context) domain.State {
	roles := f.s.cfg.Roles
	if err := f.s.chat.AddRole(ctx, f.m.GuildID, f.m.ID, roles.Unverified); err != nil {
		f.err = perr.Wrap(err, perr.ErrorCodePrecondition, "grant unverified role")
		f.quiet = true
		return domain.Failed
	}
	dm, err := f.s.chat.OpenDM(ctx, f.m.ID)
	if err != nil {
		f.err = perr.Wrap(err, perr.ErrorCodePrecondition, "open dm")
		f.quiet = true
		return domain.Failed
	}
	f.dm = dm
	return domain.AwaitingName
}

func (f *flow) awaitName(ctx context.Context) domain.State {
	if !f.welcomed {
		f.say(ctx, msgWelcome)
		f.say(ctx, msgAskName)
		f.welcomed = true
	} else {
		f.say(ctx, msgAskAgain)
	}
	reply, next, ok := f.await(ctx, domain.TimedOut)
	if !ok {
		return next
	}
	f.name = reply
	return domain.Searching
}

func (f *flow) searching(ctx context.Context) domain.State {
	hits, err := f.s.search.SearchByName(ctx, f.name)
	if err != nil {
		if ctx.Err() != nil {
			f.quiet = true
			return domain.Abandoned
		}
		f.err = perr.WithOp(err, "search")
		f.log.Error().Err(err).Str("name", f.name).Msg("verify: search failed")
		f.say(ctx, msgLookupFailed)
		return domain.Failed
	}
	f.hits = hits
	f.searched = true
	switch len(hits) {
	case 0:
		return domain.NoMatch
	case 1:
		return domain.OneMatch
	default:
		return domain.MultiMatch
	}
}

func (f *flow) noMatch(ctx context.Context) domain.State {
	f.say(ctx, msgNoMatch(f.name))
	reply, _, ok := f.await(ctx, domain.Abandoned)
	if !ok {
		return domain.Abandoned
	}
	if isYes(reply) {
		return domain.Retrying
	}
	f.say(ctx, msgNoRetry)
	return domain.Abandoned
}

func (f *flow) oneMatch(ctx context.Context) domain.State {
	f.say(ctx, msgOneMatch(f.hits[0]))
	return domain.Confirming
}

func (f *flow) confirming(ctx context.Context) domain.State {
	reply, next, ok := f.await(ctx, domain.TimedOut)
	if !ok {
		f.escalateIf(next, "no reply to the profile confirmation")
		return next
	}
	if isYes(reply) {
		c := f.hits[0]
		f.chosen = &c
		return domain.Verified
	}
	return domain.Retrying
}

func (f *flow) multiMatch(ctx context.Context) domain.State {
	f.say(ctx, msgMultiMatch(f.hits))
	for {
		reply, next, ok := f.await(ctx, domain.TimedOut)
		if !ok {
			f.escalateIf(next, "no reply to the profile list")
			return next
		}
		reply = strings.TrimSpace(reply)
		if strings.EqualFold(reply, "none") {
			return domain.Retrying
		}
		if n, err := strconv.Atoi(reply); err == nil && n >= 1 && n <= len(f.hits) {
			c := f.hits[n-1]
			f.chosen = &c
			return domain.Verified
		}
		f.say(ctx, msgBadChoice(len(f.hits)))
	}
}

func (f *flow) retrying(ctx context.Context) domain.State {
	f.attempts++
	if limit := f.s.cfg.MaxAttempts; limit > 0 && f.attempts > limit {
		f.say(ctx, msgGaveUp)
		f.escalate = "gave up after " + strconv.Itoa(limit) + " attempts"
		return domain.Abandoned
	}
	return domain.AwaitingName
}

// finish applies the side effects of the terminal state
func (f *flow) finish(ctx context.Context, state domain.State) {
	switch state {
	case domain.Verified:
		f.verified(ctx)
	case domain.TimedOut:
		f.say(ctx, msgTimeout)
	}
	if state != domain.Verified && f.searched && !f.quiet && ctx.Err() == nil {
		f.recordAttempt(ctx)
	}
	if f.escalate != "" && f.s.cfg.EscalateIncomplete && ctx.Err() == nil {
		f.post(ctx, reportIncomplete(f.ref(), f.escalate))
	}
}

func (f *flow) verified(ctx context.Context) {
	c := *f.chosen
	roles := f.s.cfg.Roles
	cs := f.s.chat

	f.sideEffect("set_nickname", cs.SetNickname(ctx, f.m.GuildID, f.m.ID, c.FullName))
	if role := roles.GenderRole(c.Gender); role != "" {
		f.sideEffect("grant_gender_role", cs.AddRole(ctx, f.m.GuildID, f.m.ID, role))
	}
	f.sideEffect("grant_verified_role", cs.AddRole(ctx, f.m.GuildID, f.m.ID, roles.Verified))
	f.sideEffect("revoke_unverified_role", cs.RemoveRole(ctx, f.m.GuildID, f.m.ID, roles.Unverified))

	id := c.ExternalID
	if err := f.s.profiles.CreateProfile(ctx, f.m.ID, c.FullName, &id); err != nil {
		f.err = err
		f.sideEffect("create_profile", err)
	}

	f.say(ctx, msgVerified(c))
	f.followUps(ctx)
	f.post(ctx, reportVerified(f.ref(), c, f.answers))
}

// recordAttempt stores an unrated profile for a member who searched but was
// not verified. An existing profile is left alone.
func (f *flow) recordAttempt(ctx context.Context) {
	_, ok, err := f.s.profiles.GetProfile(ctx, f.m.ID)
	if err != nil {
		f.sideEffect("get_profile", err)
		return
	}
	if ok {
		return
	}
	f.sideEffect("create_attempt_profile", f.s.profiles.CreateProfile(ctx, f.m.ID, normalize.Clean(f.m.DisplayName()), nil))
}

// followUps asks the interview questions; a timeout ends them early
func (f *flow) followUps(ctx context.Context) {
	for _, q := range f.s.cfg.FollowUps {
		f.say(ctx, q)
		reply, _, ok := f.await(ctx, domain.TimedOut)
		if !ok {
			f.say(ctx, msgTimeout)
			return
		}
		f.answers = append(f.answers, domain.Answer{Question: q, Reply: reply})
	}
}

// await waits for one reply with a fresh timeout. On failure it returns
// onTimeout for an elapsed wait, or Abandoned when the parent ctx ended.
func (f *flow) await(ctx context.Context, onTimeout domain.State) (string, domain.State, bool) {
	wctx, cancel := context.WithTimeout(ctx, f.s.cfg.ReplyTimeout)
	defer cancel()

	reply, err := f.dm.Await(wctx)
	if err == nil {
		return reply, 0, true
	}
	if ctx.Err() != nil {
		f.quiet = true
		return "", domain.Abandoned, false
	}
	if perr.IsCode(err, perr.ErrorCodeTimeout) {
		f.log.Info().Msg("verify: reply wait elapsed")
		return "", onTimeout, false
	}
	f.log.Error().Err(err).Msg("verify: await reply failed")
	f.err = err
	return "", domain.Failed, false
}

func (f *flow) escalateIf(state domain.State, reason string) {
	if state == domain.TimedOut {
		f.escalate = reason
	}
}

func (f *flow) say(ctx context.Context, content string) {
	if f.quiet || f.dm == nil {
		return
	}
	f.sideEffect("dm_send", f.dm.Send(ctx, content))
}

func (f *flow) post(ctx context.Context, content string) {
	f.sideEffect("admin_report", f.s.chat.Post(ctx, f.m.GuildID, f.s.cfg.AdminChannel, content))
}

func (f *flow) sideEffect(op string, err error) {
	if err == nil {
		return
	}
	metrics.SideEffectFailures.WithLabelValues(op).Inc()
	f.log.Warn().Err(err).Str("op", op).Msg("verify: side effect failed")
}

func (f *flow) ref() memberRef { return memberRef{id: f.m.ID, name: f.m.DisplayName()} }

func isYes(s string) bool { return strings.EqualFold(strings.TrimSpace(s), "yes") }
