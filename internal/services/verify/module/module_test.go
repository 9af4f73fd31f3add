package module

import (
	"context"
	"testing"
	"time"

	"ladderbot/internal/modkit"
	"ladderbot/internal/platform/chat"
	"ladderbot/internal/platform/chat/chattest"
	"ladderbot/internal/platform/config"
	"ladderbot/internal/platform/testkit"
	profdom "ladderbot/internal/services/profiles/domain"
	"ladderbot/internal/services/verify/domain"
)

type nopSearch struct{}

func (nopSearch) SearchByName(context.Context, string) ([]domain.Candidate, error) { return nil, nil }

type nopProfiles struct{}

func (nopProfiles) GetProfile(context.Context, string) (profdom.Profile, bool, error) {
	return profdom.Profile{}, false, nil
}

func (nopProfiles) CreateProfile(context.Context, string, string, *int64) error { return nil }

func TestFromConfigDefaults(t *testing.T) {
	t.Setenv("TEST_MODE", "")
	t.Setenv("ROLES_VERIFIED", "111")
	t.Setenv("ROLES_UNVERIFIED", "222")
	o := FromConfig(config.New())

	testkit.MustEqual(t, 5*time.Minute, o.ReplyTimeout)
	testkit.MustEqual(t, 5, o.MaxAttempts)
	testkit.MustEqual(t, true, o.EscalateIncomplete)
	testkit.MustEqual(t, "admin-mods", o.AdminChannel)
	testkit.MustEqual(t, domain.RoleTable{Verified: "111", Unverified: "222"}, o.Roles)
}

func TestFromConfigTestModeSwapsRoles(t *testing.T) {
	t.Setenv("TEST_MODE", "true")
	t.Setenv("ROLES_VERIFIED", "prod")
	t.Setenv("TEST_ROLES_VERIFIED", "test")
	t.Setenv("TEST_ROLES_MEN", "test-men")
	t.Setenv("VERIFY_MAX_ATTEMPTS", "0")
	o := FromConfig(config.New())

	testkit.MustEqual(t, 30*time.Second, o.ReplyTimeout)
	testkit.MustEqual(t, 0, o.MaxAttempts)
	testkit.MustEqual(t, "test", o.Roles.Verified)
	testkit.MustEqual(t, "test-men", o.Roles.Men)
}

func TestNewRequiresPorts(t *testing.T) {
	deps := modkit.Deps{Cfg: config.New(), Chat: chattest.New()}
	testkit.MustPanic(t, func() { New(deps, Options{}) })
	testkit.MustPanic(t, func() { New(deps, Options{}, modkit.WithPorts(domain.Ports{Searcher: nopSearch{}})) })
	testkit.MustPanic(t, func() {
		New(modkit.Deps{Cfg: config.New()}, Options{}, modkit.WithPorts(domain.Ports{Searcher: nopSearch{}, Profiles: nopProfiles{}}))
	})
}

func TestNewWiresJoinHandler(t *testing.T) {
	cs := chattest.New()
	cs.AddGuild(chat.Guild{ID: "g1"}, nil)
	m := New(
		modkit.Deps{Cfg: config.New(), Chat: cs},
		Options{ReplyTimeout: time.Second, Roles: domain.RoleTable{Unverified: "u", Verified: "v"}},
		modkit.WithPorts(domain.Ports{Searcher: nopSearch{}, Profiles: nopProfiles{}}),
	)
	testkit.MustEqual(t, "verify", m.Name())
	testkit.MustEqual(t, time.Second, m.Options().ReplyTimeout)

	p := m.Ports().(Ports)
	p.OnJoin(context.Background(), chat.Member{ID: "m1", GuildID: "g1"})
	testkit.MustEqual(t, []string{"u"}, cs.Roles("m1"))
}
