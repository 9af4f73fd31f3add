// Package chat defines the chat platform seam the bot services talk through
package chat

import (
	"context"
	"errors"

	perr "ladderbot/internal/platform/errors"
)

// Member is a guild member as the services see it
type Member struct {
	ID       string
	GuildID  string
	Username string
	Nick     string
	Bot      bool
}

// DisplayName returns the nickname, falling back to the account name
func (m Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.Username
}

// Guild identifies a server the session is a member of
type Guild struct {
	ID   string
	Name string
}

// DM is an open direct message channel with one member
type DM interface {
	// Send writes a message to the member
	Send(ctx context.Context, content string) error
	// Await blocks for the member's next message or until ctx is done.
	// A ctx deadline surfaces as a perr Timeout error.
	Await(ctx context.Context) (string, error)
}

// Session is the owned chat resource shared by the verify and leaderboard modules.
// Implementations must be safe for concurrent use.
type Session interface {
	OpenDM(ctx context.Context, memberID string) (DM, error)

	AddRole(ctx context.Context, guildID, memberID, roleID string) error
	RemoveRole(ctx context.Context, guildID, memberID, roleID string) error
	SetNickname(ctx context.Context, guildID, memberID, nick string) error

	// Post sends content to the text channel called channelName in guildID.
	// A missing channel is a perr NotFound error.
	Post(ctx context.Context, guildID, channelName, content string) error

	Guilds(ctx context.Context) ([]Guild, error)
	Members(ctx context.Context, guildID string) ([]Member, error)
}

// JoinHandler is invoked once per member-joined event
type JoinHandler func(ctx context.Context, m Member)

// AwaitErr maps a finished wait context into the error Await returns
func AwaitErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return perr.Wrap(ctx.Err(), perr.ErrorCodeTimeout, "reply wait elapsed")
	}
	return ctx.Err()
}
