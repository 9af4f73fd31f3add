package discord

import (
	"context"

	"ladderbot/internal/platform/chat"
	perr "ladderbot/internal/platform/errors"

	"github.com/bwmarrin/discordgo"
)

// onMessage hands a DM to the author's pending wait; with no wait it is dropped
func (s *Session) onMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	s.deliver(m.Author.ID, m.Content)
}

func (s *Session) deliver(memberID, content string) bool {
	s.mu.Lock()
	ch, ok := s.waits[memberID]
	if ok {
		delete(s.waits, memberID)
	}
	s.mu.Unlock()
	if !ok {
		s.log.Debug().Str("member_id", memberID).Msg("dm dropped, no pending wait")
		return false
	}
	ch <- content
	return true
}

// wait registers the single pending wait for memberID
func (s *Session) wait(memberID string) (chan string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.waits[memberID]; busy {
		return nil, perr.Preconditionf("member %s already has a pending wait", memberID)
	}
	ch := make(chan string, 1)
	s.waits[memberID] = ch
	return ch, nil
}

// unwait drops the registration if it is still ours
func (s *Session) unwait(memberID string, ch chan string) {
	s.mu.Lock()
	if s.waits[memberID] == ch {
		delete(s.waits, memberID)
	}
	s.mu.Unlock()
}

type dm struct {
	s         *Session
	channelID string
	memberID  string
}

func (d *dm) Send(ctx context.Context, content string) error {
	if _, err := d.s.dg.ChannelMessageSend(d.channelID, content, discordgo.WithContext(ctx)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "dm %s", d.memberID)
	}
	return nil
}

func (d *dm) Await(ctx context.Context) (string, error) {
	ch, err := d.s.wait(d.memberID)
	if err != nil {
		return "", err
	}
	defer d.s.unwait(d.memberID, ch)

	select {
	case msg := <-ch:
		return msg, nil
	case <-ctx.Done():
		// a reply may have landed between the deadline and here
		select {
		case msg := <-ch:
			return msg, nil
		default:
		}
		return "", chat.AwaitErr(ctx)
	}
}
