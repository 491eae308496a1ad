// Package chat is the pure interpretation core behind the agenda assistant:
// text folding, intent classification and the Spanish date grammar.
// It never touches storage; services feed it messages and act on the result.
package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes, drops combining marks and recomposes,
// so "Comitán" and "comitan" collapse to the same key
var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases s, strips accents and trims surrounding space.
// All keyword and alias matching happens over folded text
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return s
	}
	return out
}

// foldOffsets folds s rune by rune, recording the source byte offset of every
// folded byte so a match in the folded text can be traced back to the exact
// characters the user typed
func foldOffsets(s string) (string, []int) {
	var b strings.Builder
	offs := make([]int, 0, len(s))
	for i, r := range s {
		fr, _, err := transform.String(foldChain, string(unicode.ToLower(r)))
		if err != nil {
			fr = string(unicode.ToLower(r))
		}
		b.WriteString(fr)
		for j := 0; j < len(fr); j++ {
			offs = append(offs, i)
		}
	}
	return b.String(), offs
}

// typedSpan returns the slice of message whose folded form matches phrase, so
// replies can echo the accents and casing the user actually typed. Falls back
// to phrase itself when no span maps back
func typedSpan(message, phrase string) string {
	folded, offs := foldOffsets(message)
	idx := strings.Index(folded, phrase)
	if idx < 0 || idx+len(phrase) > len(offs) {
		return phrase
	}
	start := offs[idx]
	last := offs[idx+len(phrase)-1]
	_, size := utf8.DecodeRuneInString(message[last:])
	return message[start : last+size]
}
