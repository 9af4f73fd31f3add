// Package chattest provides an in-memory chat.Session for driving services in tests
package chattest

import (
	"context"
	"slices"
	"sync"

	"ladderbot/internal/platform/chat"
	perr "ladderbot/internal/platform/errors"
)

// Timeout is a scripted reply that makes Await fail as if the wait elapsed
const Timeout = "\x00timeout"

// Post records one channel post
type Post struct {
	GuildID string
	Channel string
	Content string
}

// Session is a scripted, recording chat.Session. The zero value is not usable, call New.
type Session struct {
	mu sync.Mutex

	replies map[string][]string
	sent    map[string][]string
	roles   map[string]map[string]bool
	nicks   map[string]string
	posts   []Post

	guilds   []chat.Guild
	members  map[string][]chat.Member
	channels map[string]bool

	// failure injection
	FailOpenDM   error
	FailRole     map[string]error
	FailNickname error
	FailMembers  error
}

var _ chat.Session = (*Session)(nil)

// New returns an empty fake session
func New() *Session {
	return &Session{
		replies:  map[string][]string{},
		sent:     map[string][]string{},
		roles:    map[string]map[string]bool{},
		nicks:    map[string]string{},
		members:  map[string][]chat.Member{},
		channels: map[string]bool{},
		FailRole: map[string]error{},
	}
}

// Script queues replies the member will give, in order. Await on an empty
// queue behaves like Timeout.
func (s *Session) Script(memberID string, replies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[memberID] = append(s.replies[memberID], replies...)
}

// AddGuild registers a guild with its members and text channels
func (s *Session) AddGuild(g chat.Guild, channels []string, members ...chat.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guilds = append(s.guilds, g)
	for i := range members {
		members[i].GuildID = g.ID
	}
	s.members[g.ID] = append(s.members[g.ID], members...)
	for _, c := range channels {
		s.channels[g.ID+"/"+c] = true
	}
}

// Sent returns the messages DMed to memberID
func (s *Session) Sent(memberID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sent[memberID])
}

// Roles returns the sorted role ids memberID currently holds
func (s *Session) Roles(memberID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.roles[memberID]))
	for r := range s.roles[memberID] {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Nick returns the nickname set for memberID
func (s *Session) Nick(memberID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nicks[memberID]
}

// Posts returns every channel post so far
func (s *Session) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posts)
}

// OpenDM implements chat.Session
func (s *Session) OpenDM(_ context.Context, memberID string) (chat.DM, error) {
	if s.FailOpenDM != nil {
		return nil, s.FailOpenDM
	}
	return &dm{s: s, member: memberID}, nil
}

// AddRole implements chat.Session
func (s *Session) AddRole(_ context.Context, _, memberID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailRole[roleID]; err != nil {
		return err
	}
	if s.roles[memberID] == nil {
		s.roles[memberID] = map[string]bool{}
	}
	s.roles[memberID][roleID] = true
	return nil
}

// RemoveRole implements chat.Session
func (s *Session) RemoveRole(_ context.Context, _, memberID, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailRole[roleID]; err != nil {
		return err
	}
	delete(s.roles[memberID], roleID)
	return nil
}

// SetNickname implements chat.Session
func (s *Session) SetNickname(_ context.Context, _, memberID, nick string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNickname != nil {
		return s.FailNickname
	}
	s.nicks[memberID] = nick
	return nil
}

// Post implements chat.Session. Channels must be registered through AddGuild.
func (s *Session) Post(_ context.Context, guildID, channelName, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.channels[guildID+"/"+channelName] {
		return perr.NotFoundf("channel %q not found in guild %s", channelName, guildID)
	}
	s.posts = append(s.posts, Post{GuildID: guildID, Channel: channelName, Content: content})
	return nil
}

// Guilds implements chat.Session
func (s *Session) Guilds(context.Context) ([]chat.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.guilds), nil
}

// Members implements chat.Session
func (s *Session) Members(_ context.Context, guildID string) ([]chat.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailMembers != nil {
		return nil, s.FailMembers
	}
	return slices.Clone(s.members[guildID]), nil
}

type dm struct {
	s      *Session
	member string
}

func (d *dm) Send(_ context.Context, content string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.sent[d.member] = append(d.s.sent[d.member], content)
	return nil
}

func (d *dm) Await(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", chat.AwaitErr(ctx)
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	q := d.s.replies[d.member]
	if len(q) == 0 || q[0] == Timeout {
		if len(q) > 0 {
			d.s.replies[d.member] = q[1:]
		}
		return "", perr.Timeoutf("reply wait elapsed")
	}
	d.s.replies[d.member] = q[1:]
	return q[0], nil
}
