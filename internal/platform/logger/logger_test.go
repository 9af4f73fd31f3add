package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"

	kit "ladderbot/internal/platform/testkit"
)

// Init only takes effect once per process, so every assertion on the root
// output lives in this test.
func TestRootCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Service: "ladderbot-test", Writer: &buf})

	Named("verify").Debug().Msg("named")
	ctx := WithRun(WithFlow(context.Background(), "flow-1", "g-9", "m-42"), "run-7")
	C(ctx).Info().Msg("flow")
	NamedC(WithRequest(context.Background(), "req-123"), "ops").Info().Msg("request")
	Get().Trace().Msg("below level")

	out := buf.String()
	for _, want := range []string{
		`"component":"verify"`,
		`"flow_id":"flow-1"`,
		`"guild_id":"g-9"`,
		`"member_id":"m-42"`,
		`"run_id":"run-7"`,
		`"request_id":"req-123"`,
		`"component":"ops"`,
		`"service":"ladderbot-test"`,
	} {
		kit.MustContain(t, out, want)
	}
	if bytes.Contains(buf.Bytes(), []byte("below level")) {
		t.Fatalf("trace line written at debug level")
	}
}

func TestBuildLevels(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"WARN":     zerolog.WarnLevel,
		" error ":  zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		l := build(Options{Level: in, Format: "json", Writer: &bytes.Buffer{}})
		if l.GetLevel() != want {
			t.Fatalf("build(%q) level = %v, want %v", in, l.GetLevel(), want)
		}
	}
}

func TestWithFlowKeepsEarlierFields(t *testing.T) {
	t.Parallel()

	ctx := WithFlow(context.Background(), "flow-1", "g-1", "m-1")
	ctx = WithFlow(ctx, "", "", "m-2")
	f := fieldsOf(ctx)
	kit.MustEqual(t, "flow-1", FlowID(ctx))
	kit.MustEqual(t, "g-1", f.guildID)
	kit.MustEqual(t, "m-2", f.memberID)
	kit.MustEqual(t, "", FlowID(context.Background()))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "ladderbot-b")
	t.Setenv("LOG_CALLER", "true")

	kit.MustEqual(t, Options{Level: "warn", Format: "json", Service: "ladderbot-b", Caller: true}, FromEnv())
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_SERVICE", "")
	t.Setenv("LOG_CALLER", "")

	kit.MustEqual(t, Options{Level: "info", Format: "console", Service: "ladderbot"}, FromEnv())
}
