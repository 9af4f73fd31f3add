package normalize

import "testing"

func TestName_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity ascii", in: "jane doe", out: "jane doe"},
		{name: "utf8 repair drops invalid bytes", in: string([]byte{0xff, 'J', 'o', 0x80, ' ', 'D', 'o', 'e'}), out: "jo doe"},
		{name: "case fold", in: "JaNe DOE", out: "jane doe"},
		{name: "remove zero-widths", in: "Ja\u200Bne\u200D Doe", out: "jane doe"},
		{name: "remove combining marks", in: "Jose\u0301 Nun\u0303ez", out: "jose nunez"},
		{name: "precomposed accents fold", in: "Jos\u00e9", out: "jose"},
		{name: "width fold fullwidth", in: "ＪＡＮＥ doe", out: "jane doe"},
		{name: "nfkc ligature", in: "ﬁnn", out: "finn"},
		{name: "collapse whitespace", in: "  Jane\t\tQ \n Doe  ", out: "jane q doe"},
		{name: "controls dropped", in: "Ja\x00ne\x7f", out: "jane"},
		{name: "empty", in: "", out: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Name(tc.in)
			if got != tc.out {
				t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := Name(got); again != got {
				t.Fatalf("Name not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestClean(t *testing.T) {
	in := " Jane\x00 \u0085Doe\t"
	want := "Jane Doe"
	if got := Clean(in); got != want {
		t.Fatalf("Clean(%q) = %q, want %q", in, got, want)
	}
	if got := Clean("José"); got != "José" {
		t.Fatalf("Clean should keep accents, got %q", got)
	}
}
