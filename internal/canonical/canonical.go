// Package canonical folds OCR-noisy app labels into stable canonical names
// and scores how likely two labels refer to the same app. The vocabulary
// (alias table plus known-app list) is injected so callers and tests can
// substitute their own.
package canonical

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gridsense/gridsense/internal/config"
)

// Vocabulary is the static matching vocabulary: canonical-form aliases and
// the known-app names canonicalization resolves against.
type Vocabulary struct {
	// Aliases maps a canonical form to the canonical form it should be
	// folded into (e.g. "gmaps" -> "google maps").
	Aliases map[string]string
	// KnownApps are display names of apps the catalog knows about.
	KnownApps []string
}

// Canonicalizer performs name folding and fuzzy matching against an
// injected vocabulary.
type Canonicalizer struct {
	vocab Vocabulary
	match config.MatchConfig
}

// New creates a Canonicalizer. Pass DefaultVocabulary() for the built-in
// tables.
func New(vocab Vocabulary, match config.MatchConfig) *Canonicalizer {
	return &Canonicalizer{vocab: vocab, match: match}
}

var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ocrDigitFixes maps digits OCR commonly produces inside words back to the
// letter they were misread from. Applied only when the digit is flanked by
// letters on both sides, so genuine digits in names survive.
var ocrDigitFixes = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'5': 's',
}

// CanonicalName folds a free-text label into its canonical form: case and
// diacritic folding, "&" to "and", OCR digit-confusion repair, whitespace
// collapsing, and finally alias substitution on exact match.
func (c *Canonicalizer) CanonicalName(text string) string {
	s := strings.ToLower(text)
	if folded, _, err := transform.String(diacriticFold, s); err == nil {
		s = folded
	}
	s = strings.ReplaceAll(s, "&", "and")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}

	runes := []rune(b.String())
	for i, r := range runes {
		fix, confusable := ocrDigitFixes[r]
		if !confusable {
			continue
		}
		if i > 0 && i < len(runes)-1 && isLetter(runes[i-1]) && isLetter(runes[i+1]) {
			runes[i] = fix
		}
	}

	s = strings.Join(strings.Fields(string(runes)), " ")
	if alias, ok := c.vocab.Aliases[s]; ok {
		return alias
	}
	return s
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// Similarity scores how likely two labels name the same app, in [0,1]. Both
// sides are canonicalized first, so the score is symmetric and insensitive
// to OCR noise the canonical form already absorbs.
//
// The score blends normalized edit-distance similarity, token overlap,
// substring containment, and common-prefix ratio:
//
//	max(0.5*edit + 0.3*token + 0.2*containment, 0.9*edit + 0.1*prefix)
//
// The second branch keeps near-identical single-edit names from being
// penalized by the token and containment terms. When one name wholly
// contains the other the edit term is taken over the aligned window, which
// scores containment like an exact match of the shorter name.
func (c *Canonicalizer) Similarity(a, b string) float64 {
	ca, cb := c.CanonicalName(a), c.CanonicalName(b)
	if ca == "" || cb == "" {
		return 0
	}
	if ca == cb {
		return 1
	}

	contained := strings.Contains(ca, cb) || strings.Contains(cb, ca)

	edit := editSimilarity(ca, cb)
	if contained {
		edit = 1
	}

	token := tokenSimilarity(ca, cb, edit)

	containment := 0.0
	if contained {
		containment = 1
	}

	prefix := commonPrefixRatio(ca, cb)

	blended := 0.5*edit + 0.3*token + 0.2*containment
	direct := 0.9*edit + 0.1*prefix
	if direct > blended {
		return direct
	}
	return blended
}

// BestMatch canonicalizes the candidate and every option, and returns the
// option with the highest similarity when it clears the configured generic
// threshold. The returned string is the original option, not its canonical
// form.
func (c *Canonicalizer) BestMatch(candidate string, options []string) (string, bool) {
	best, score := c.bestOption(candidate, options)
	if score < c.match.MinScore {
		return "", false
	}
	return best, true
}

// CanonicalizeToKnownApp resolves a label against the known-app vocabulary
// under the stricter known-app threshold. Labels that match nothing are
// returned unchanged; this function never renames an unrecognized label.
func (c *Canonicalizer) CanonicalizeToKnownApp(candidate string) string {
	best, score := c.bestOption(candidate, c.vocab.KnownApps)
	if score < c.match.KnownAppMinScore {
		return candidate
	}
	return best
}

func (c *Canonicalizer) bestOption(candidate string, options []string) (string, float64) {
	bestScore := -1.0
	best := ""
	for _, opt := range options {
		s := c.Similarity(candidate, opt)
		if s > bestScore {
			bestScore = s
			best = opt
		}
	}
	return best, bestScore
}

// editSimilarity is 1 - levenshtein(a,b)/max(len(a),len(b)).
func editSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// tokenSimilarity is the token-set Jaccard overlap when both names are
// multi-word; for single-word names the edit similarity stands in.
func tokenSimilarity(a, b string, edit float64) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) < 2 || len(tb) < 2 {
		return edit
	}

	setA := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		setB[t] = struct{}{}
	}
	inter := 0
	union := len(setB)
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

func commonPrefixRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return float64(n) / float64(longest)
}
