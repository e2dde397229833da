package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// NormalizePO turns a spoken purchase order number into its catalog key:
// everything outside [A-Za-z0-9] is dropped and the rest upper-cased.
// "p.o. 100!" becomes "PO100". The result may be empty.
func NormalizePO(transcript string) string {
	return strings.ToUpper(nonAlphanumeric.ReplaceAllString(transcript, ""))
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'", "´", "'")

// foldText lower-cases, strips combining marks and unifies apostrophes so
// "Llegué" and "llegue" compare equal.
func foldText(text string) string {
	text = strings.ToLower(apostrophes.Replace(text))

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}

	return strings.Join(strings.Fields(result), " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// similarity is difflib's SequenceMatcher ratio over the runes of a and b.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
