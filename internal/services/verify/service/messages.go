package service

import (
	"fmt"
	"strings"

	"ladderbot/internal/services/verify/domain"
)

const (
	msgWelcome      = "Welcome to the server! Let's start with a quick interview."
	msgAskName      = "What's your name? Please reply with the full name on your DUPR profile."
	msgAskAgain     = "Let's try a different name. What's the full name on your DUPR profile?"
	msgTimeout      = "You did not respond in time, please try to answer more promptly."
	msgLookupFailed = "Something went wrong while looking up your DUPR profile. A moderator will follow up with you."
	msgNoRetry      = "No problem. A moderator can verify you later."
	msgGaveUp       = "We couldn't match you to a DUPR profile. A moderator will follow up with you."
)

// DefaultFollowUps are asked once the member is verified
var DefaultFollowUps = []string{
	"How did you find out about this server?",
	"What are your interests?",
}

func describe(c domain.Candidate) string {
	var b strings.Builder
	b.WriteString(c.FullName)
	if c.ShortAddress != "" {
		b.WriteString(" (")
		b.WriteString(c.ShortAddress)
		b.WriteString(")")
	}
	if c.RatingDoubles != "" {
		b.WriteString(" doubles ")
		b.WriteString(c.RatingDoubles)
	}
	return b.String()
}

func msgNoMatch(name string) string {
	return fmt.Sprintf("I couldn't find a DUPR profile for %q. Would you like to try a different name? (yes/no)", name)
}

func msgOneMatch(c domain.Candidate) string {
	return fmt.Sprintf("I found this DUPR profile:\n%s\nIs this you? (yes/no)", describe(c))
}

func msgMultiMatch(hits []domain.Candidate) string {
	var b strings.Builder
	b.WriteString("I found several DUPR profiles:\n")
	for i, c := range hits {
		fmt.Fprintf(&b, "%d. %s\n", i+1, describe(c))
	}
	b.WriteString(`Reply with the number of your profile, or "none" if none of these are you.`)
	return b.String()
}

func msgBadChoice(n int) string {
	return fmt.Sprintf(`Please reply with a number between 1 and %d, or "none".`, n)
}

func msgVerified(c domain.Candidate) string {
	return fmt.Sprintf("Thanks %s, you're verified! Just a couple more questions.", c.FullName)
}

func reportVerified(m memberRef, c domain.Candidate, answers []domain.Answer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Verified %s (<@%s>) as %s, DUPR id %d", m.name, m.id, c.FullName, c.ExternalID)
	if c.RatingDoubles != "" {
		fmt.Fprintf(&b, ", doubles %s", c.RatingDoubles)
	}
	for _, a := range answers {
		fmt.Fprintf(&b, "\n**%s**\n%s", a.Question, a.Reply)
	}
	return b.String()
}

func reportIncomplete(m memberRef, reason string) string {
	return fmt.Sprintf("Incomplete verification for %s (<@%s>): %s", m.name, m.id, reason)
}

type memberRef struct{ id, name string }
