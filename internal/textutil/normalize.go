package textutil

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

var connectorReplacer = strings.NewReplacer("&", " and ", "+", " and ")

// FoldDiacritics removes combining marks so accented characters compare equal
// to their ASCII counterparts ("Beyoncé" -> "Beyonce").
func FoldDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

// Tokenize splits text into lowercase diacritics-folded tokens. Connector
// symbols (&, +) become "and" so "A & B" and "A and B" tokenize identically.
// Short tokens are kept: artist names like "M83" or "BT" matter here.
func Tokenize(text string) []string {
	lowered := strings.ToLower(FoldDiacritics(text))
	lowered = connectorReplacer.Replace(lowered)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// Normalize returns the canonical comparison form of text: folded, lowered,
// tokenized, and re-joined with single spaces.
func Normalize(text string) string {
	return strings.Join(Tokenize(text), " ")
}

// SortedTokens returns the normalized tokens in sorted order joined by
// spaces, giving an order-insensitive comparison form for multi-artist
// strings. Connector tokens are dropped so "Eric Prydz & CamelPhat" and
// "CamelPhat, Eric Prydz" compare equal.
func SortedTokens(text string) string {
	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, token := range tokens {
		if token == "and" {
			continue
		}
		kept = append(kept, token)
	}
	sort.Strings(kept)
	return strings.Join(kept, " ")
}

// StripBracketed removes a trailing parenthesized or bracketed section from a
// title ("Strobe (Club Edit)" -> "Strobe"). Titles that start with a bracket
// are left alone.
func StripBracketed(title string) string {
	if idx := strings.IndexAny(title, "(["); idx > 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}
