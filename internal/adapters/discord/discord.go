// Package discord implements chat.Session over a discordgo gateway session
package discord

import (
	"context"
	"sync"

	"ladderbot/internal/platform/chat"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/logger"

	"github.com/bwmarrin/discordgo"
)

const memberPage = 1000

// Session owns the gateway connection and routes DMs to waiting flows
type Session struct {
	dg  *discordgo.Session
	log logger.Logger

	mu    sync.Mutex
	waits map[string]chan string

	removers []func()
}

var _ chat.Session = (*Session)(nil)

// New builds a session for a bot token; nothing connects until Open
func New(token string) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "discord session")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages

	s := newSession(dg)
	s.removers = append(s.removers,
		dg.AddHandler(s.onMessage),
		dg.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			s.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord ready")
		}),
	)
	return s, nil
}

func newSession(dg *discordgo.Session) *Session {
	return &Session{dg: dg, log: *logger.Named("discord"), waits: map[string]chan string{}}
}

// Open connects the gateway
func (s *Session) Open() error {
	if err := s.dg.Open(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "discord open")
	}
	return nil
}

// Close detaches handlers and disconnects
func (s *Session) Close() error {
	for _, rm := range s.removers {
		rm()
	}
	s.removers = nil
	return s.dg.Close()
}

// Ping reports whether the gateway has finished its handshake
func (s *Session) Ping(context.Context) error {
	s.dg.RLock()
	ready := s.dg.DataReady
	s.dg.RUnlock()
	if !ready {
		return perr.Unavailablef("discord gateway not ready")
	}
	return nil
}

// OnMemberJoin runs h in its own goroutine for every member-joined event.
// ctx is the parent of every flow context.
func (s *Session) OnMemberJoin(ctx context.Context, h chat.JoinHandler) {
	rm := s.dg.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
		if e.Member == nil || e.User == nil || e.User.Bot {
			return
		}
		go h(ctx, toMember(e.GuildID, e.Member))
	})
	s.removers = append(s.removers, rm)
}

// OpenDM implements chat.Session
func (s *Session) OpenDM(ctx context.Context, memberID string) (chat.DM, error) {
	ch, err := s.dg.UserChannelCreate(memberID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "open dm with %s", memberID)
	}
	return &dm{s: s, channelID: ch.ID, memberID: memberID}, nil
}

// AddRole implements chat.Session
func (s *Session) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	return perr.WrapIf(s.dg.GuildMemberRoleAdd(guildID, memberID, roleID, discordgo.WithContext(ctx)),
		perr.ErrorCodeUnavailable, "add role "+roleID)
}

// RemoveRole implements chat.Session
func (s *Session) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	return perr.WrapIf(s.dg.GuildMemberRoleRemove(guildID, memberID, roleID, discordgo.WithContext(ctx)),
		perr.ErrorCodeUnavailable, "remove role "+roleID)
}

// SetNickname implements chat.Session
func (s *Session) SetNickname(ctx context.Context, guildID, memberID, nick string) error {
	return perr.WrapIf(s.dg.GuildMemberNickname(guildID, memberID, nick, discordgo.WithContext(ctx)),
		perr.ErrorCodeUnavailable, "set nickname")
}

// Post implements chat.Session
func (s *Session) Post(ctx context.Context, guildID, channelName, content string) error {
	chans, err := s.dg.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "list channels of %s", guildID)
	}
	id := findTextChannel(chans, channelName)
	if id == "" {
		return perr.NotFoundf("channel %q not found in guild %s", channelName, guildID)
	}
	if _, err := s.dg.ChannelMessageSend(id, content, discordgo.WithContext(ctx)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "post to %s", channelName)
	}
	return nil
}

// Guilds implements chat.Session from the gateway state cache
func (s *Session) Guilds(context.Context) ([]chat.Guild, error) {
	s.dg.State.RLock()
	defer s.dg.State.RUnlock()
	out := make([]chat.Guild, 0, len(s.dg.State.Guilds))
	for _, g := range s.dg.State.Guilds {
		out = append(out, chat.Guild{ID: g.ID, Name: g.Name})
	}
	return out, nil
}

// Members implements chat.Session, paging the member list until exhausted
func (s *Session) Members(ctx context.Context, guildID string) ([]chat.Member, error) {
	var (
		out   []chat.Member
		after string
	)
	for {
		page, err := s.dg.GuildMembers(guildID, after, memberPage, discordgo.WithContext(ctx))
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "list members of %s", guildID)
		}
		for _, m := range page {
			if m.User == nil {
				continue
			}
			out = append(out, toMember(guildID, m))
			after = m.User.ID
		}
		if len(page) < memberPage {
			return out, nil
		}
	}
}

func toMember(guildID string, m *discordgo.Member) chat.Member {
	return chat.Member{
		ID:       m.User.ID,
		GuildID:  guildID,
		Username: m.User.Username,
		Nick:     m.Nick,
		Bot:      m.User.Bot,
	}
}

func findTextChannel(chans []*discordgo.Channel, name string) string {
	for _, c := range chans {
		if c != nil && c.Type == discordgo.ChannelTypeGuildText && c.Name == name {
			return c.ID
		}
	}
	return ""
}
