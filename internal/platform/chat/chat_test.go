package chat

import (
	"context"
	"testing"
	"time"

	perr "ladderbot/internal/platform/errors"
)

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := (Member{Username: "acct", Nick: "Nick"}).DisplayName(); got != "Nick" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := (Member{Username: "acct"}).DisplayName(); got != "acct" {
		t.Fatalf("DisplayName fallback = %q", got)
	}
}

func TestAwaitErr(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	if err := AwaitErr(ctx); !perr.IsCode(err, perr.ErrorCodeTimeout) {
		t.Fatalf("deadline should map to Timeout, got %v", err)
	}

	cctx, ccancel := context.WithCancel(context.Background())
	ccancel()
	if err := AwaitErr(cctx); perr.IsCode(err, perr.ErrorCodeTimeout) || err == nil {
		t.Fatalf("cancel should stay a plain cancel, got %v", err)
	}
}
