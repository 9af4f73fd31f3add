// Package normalize folds member display names into a comparable form.
// Pipeline order
// 1 UTF-8 repair drop invalid bytes and control runes
// 2 Unicode NFKD decomposition
// 3 Case folding
// 4 Remove format chars and combining marks
// 5 Width fold fullwidth to ASCII, then recompose NFC
// 6 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains, a chain is stateful so it is not shared
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)), // combining marks
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
			width.Fold,
			norm.NFC,
		)
	},
}

// Name returns the folded form of a display name used for similarity scoring
func Name(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	return strings.Join(strings.Fields(ns), " ")
}

// Clean drops invalid UTF-8 and control runes and collapses whitespace but
// otherwise keeps the name as typed, for storage and display
func Clean(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if unicode.IsSpace(r) {
				return ' '
			}
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
