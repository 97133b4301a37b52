// Package importer parses deck-list text into deck entries, resolving card
// names against the catalog.
package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
	"github.com/overpower-tools/deckbuilder/internal/rules"
)

// ParseResult contains the outcome of parsing a deck list.
type ParseResult struct {
	Entries  []deck.Entry
	Errors   []string
	Warnings []string
}

// ParsedOK reports whether the list produced at least one entry and no
// errors.
func (r *ParseResult) ParsedOK() bool {
	return len(r.Entries) > 0 && len(r.Errors) == 0
}

// Parser resolves deck-list lines against a catalog store.
type Parser struct {
	store *catalog.Store
}

// NewParser creates a deck-list parser.
func NewParser(store *catalog.Store) *Parser {
	return &Parser{store: store}
}

// Deck-list line format: "4 power: Power Blast" or "4x special: Overload".
// The quantity is optional and defaults to 1: "location: Fortress".
// Group 1: quantity (optional), group 2: card type, group 3: card name.
var lineRe = regexp.MustCompile(`^(?:(\d+)x?\s+)?([a-zA-Z-]+)\s*:\s*(.+)$`)

// Parse parses a full deck list. Lines starting with "#" and blank lines are
// skipped. Unknown card names produce warnings; unparseable lines produce
// errors. Quantities for repeated (type, name) lines merge.
func (p *Parser) Parse(input string) *ParseResult {
	result := &ParseResult{}

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Line %d: could not parse %q", i+1, line))
			continue
		}

		quantity := 1
		if m[1] != "" {
			q, err := strconv.Atoi(m[1])
			if err != nil || q < 1 {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Line %d: invalid quantity %q", i+1, m[1]))
				continue
			}
			quantity = q
		}

		cardType := catalog.CardType(strings.ToLower(m[2]))
		name := strings.TrimSpace(m[3])

		card, ok := p.store.FindByName(cardType, name)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Card %q (%s) not found in catalog", name, cardType))
			continue
		}

		result.Entries = deck.AddEntry(result.Entries, deck.Entry{
			Type:     cardType,
			CardID:   card.ID,
			Quantity: quantity,
		})
	}

	if len(result.Entries) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No cards found in import")
	}

	return result
}

// partialFilterPrefixes are the validator messages that do not apply to a
// deck still being assembled: counts and budgets that only settle once the
// full list is in.
var partialFilterPrefixes = []string{
	rules.CharacterCountPrefix,
	rules.MissionCountPrefix,
	rules.DrawPilePrefix,
	rules.ThreatPrefix,
}

// ValidatePartial validates imported entries, dropping the size and budget
// errors that a partially-built deck cannot satisfy yet. The remaining
// errors (ownership, mission-set coherence, usability) hold at any size.
func ValidatePartial(entries []deck.Entry, cat catalog.Lookup) rules.Result {
	result := rules.Validate(entries, cat)

	var kept []string
	for _, e := range result.Errors {
		filtered := false
		for _, prefix := range partialFilterPrefixes {
			if strings.HasPrefix(e, prefix) {
				filtered = true
				break
			}
		}
		if !filtered {
			kept = append(kept, e)
		}
	}

	result.Errors = kept
	result.IsValid = len(kept) == 0
	return result
}
