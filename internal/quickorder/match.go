package quickorder

import (
	"strings"
	"unicode"

	"github.com/kiwari-pos/floor/internal/floor"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	case Unmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Item       *floor.MenuItem  // when Matched
	Candidates []floor.MenuItem // when Ambiguous
}

const (
	variantWeight = 5
	regularWeight = 1
)

// variantKeywords tell otherwise identical items apart. A variant typed by
// the waiter must appear in the item name.
var variantKeywords = map[string]bool{
	"small":     true,
	"large":     true,
	"hot":       true,
	"iced":      true,
	"red":       true,
	"white":     true,
	"rose":      true,
	"still":     true,
	"sparkling": true,
	"double":    true,
}

// Matcher performs keyword-based menu item matching
type Matcher struct {
	items    []floor.MenuItem
	keywords [][]string // pre-tokenized name words per item
}

// NewMatcher indexes menu by the words of each item name.
func NewMatcher(menu []floor.MenuItem) *Matcher {
	m := &Matcher{
		items:    menu,
		keywords: make([][]string, len(menu)),
	}
	for i, item := range menu {
		m.keywords[i] = strings.Fields(normalize(item.Name))
	}
	return m
}

// Match scores every menu item against text. A full name match wins
// outright; otherwise the highest keyword score wins and ties are ambiguous.
func (m *Matcher) Match(text string) MatchResult {
	normalized := normalize(text)
	input := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		input[tok] = true
		// "colas", "fries" typed for "cola", "fry" are common enough.
		if s := strings.TrimSuffix(tok, "s"); s != tok && s != "" {
			input[s] = true
		}
	}

	inputVariants := make(map[string]bool)
	for tok := range input {
		if variantKeywords[tok] {
			inputVariants[tok] = true
		}
	}

	type scoredItem struct {
		item  floor.MenuItem
		score int
	}
	var scored []scoredItem

	for i, item := range m.items {
		keywords := m.keywords[i]
		if strings.Join(keywords, " ") == normalized {
			found := m.items[i]
			return MatchResult{Status: Matched, Item: &found}
		}

		// Hard filter: if input contains variant keywords, candidate MUST have them
		if !hasAll(keywords, inputVariants) {
			continue
		}

		score := 0
		for _, kw := range keywords {
			if input[kw] {
				if variantKeywords[kw] {
					score += variantWeight
				} else {
					score += regularWeight
				}
			}
		}
		if score > 0 {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	if len(scored) == 0 {
		return MatchResult{Status: Unmatched}
	}

	maxScore := 0
	for _, s := range scored {
		if s.score > maxScore {
			maxScore = s.score
		}
	}
	var top []floor.MenuItem
	for _, s := range scored {
		if s.score == maxScore {
			top = append(top, s.item)
		}
	}

	if len(top) == 1 {
		return MatchResult{Status: Matched, Item: &top[0]}
	}
	return MatchResult{Status: Ambiguous, Candidates: top}
}

func hasAll(keywords []string, want map[string]bool) bool {
	for w := range want {
		found := false
		for _, kw := range keywords {
			if kw == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// normalize lowercases s and replaces non-alphanumeric runes with single
// spaces.
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
