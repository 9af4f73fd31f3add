package domain

import "testing"

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{Verified, TimedOut, Abandoned, Failed} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []State{AwaitingName, Searching, NoMatch, OneMatch, MultiMatch, Confirming, Retrying} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
	if State(99).String() != "unknown" || Confirming.String() != "confirming" {
		t.Fatalf("unexpected names")
	}
}

func TestGenderRole(t *testing.T) {
	rt := RoleTable{Men: "m", Women: "w"}
	cases := map[string]string{"MALE": "m", "female": "w", " Male ": "m", "": "", "OTHER": ""}
	for in, want := range cases {
		if got := rt.GenderRole(in); got != want {
			t.Fatalf("GenderRole(%q)=%q want %q", in, got, want)
		}
	}
}
