package rules

import (
	"log"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
)

// Debug enables warnings for unparseable threshold strings. Parsing failures
// are always fail-open (the card stays usable) so malformed catalog data
// never blocks deck editing.
var Debug bool

func debugf(format string, v ...interface{}) {
	if Debug {
		log.Printf(format, v...)
	}
}

// IsUsable reports whether at least one active character on the team can use
// the card. Characters themselves are usable while not knocked out; types
// without a gating rule are always usable.
func IsUsable(card *catalog.Card, team Team) bool {
	if card == nil {
		return false
	}

	switch card.Type {
	case catalog.TypeCharacter:
		return !team.isKO(card.ID)
	case catalog.TypeSpecial, catalog.TypeAdvancedUniverse:
		return specialUsable(card, team)
	case catalog.TypeTeamwork:
		return teamworkUsable(card, team)
	case catalog.TypeAllyUniverse:
		return allyUsable(card, team)
	case catalog.TypeTraining:
		return trainingUsable(card, team)
	case catalog.TypeBasicUniverse:
		return basicUniverseUsable(card, team)
	case catalog.TypePower:
		return powerUsable(card, team)
	}
	return true
}

// specialUsable gates specials and advanced-universe cards on their owning
// character. A card owned by a specific character goes dark only when that
// character is knocked out and no same-named active character covers it.
func specialUsable(card *catalog.Card, team Team) bool {
	owner := card.Character
	if owner == "" || card.OwnedByAnyCharacter() {
		return true
	}
	if team.koNamed(owner) && !team.activeNamed(owner) {
		return false
	}
	return true
}

// teamworkUsable gates teamwork cards. A teamwork card fundamentally requires
// coordination: with more than one character in the deck but only one still
// standing, it is unusable no matter how good that character's stats are.
func teamworkUsable(card *catalog.Card, team Team) bool {
	gate, ok := ParseTeamworkGate(card.ToUse)
	if !ok {
		debugf("rules: teamwork %q has unparseable to_use %q", card.Name, card.ToUse)
		return false
	}
	if team.TotalCharacters() > 1 && len(team.Active) == 1 {
		return false
	}
	if gate.Stat == catalog.PowerAny {
		return team.MaxStat.Max() >= gate.Value
	}
	return team.MaxStat.Stat(gate.Stat) >= gate.Value
}

// allyUsable gates ally-universe cards against any single active character's
// printed stat. The solo-team override applies as for teamwork.
func allyUsable(card *catalog.Card, team Team) bool {
	req, ok := ParseAllyGate(card.StatToUse)
	if !ok {
		debugf("rules: ally %q has unparseable stat_to_use %q", card.Name, card.StatToUse)
		return true
	}
	if team.TotalCharacters() > 1 && len(team.Active) == 1 {
		return false
	}
	for _, m := range team.Active {
		stat := m.Raw.Stat(card.StatTypeToUse)
		if req.Comparator == CompareAtMost && stat <= req.Value {
			return true
		}
		if req.Comparator == CompareAtLeast && stat >= req.Value {
			return true
		}
	}
	return false
}

// trainingUsable gates training cards: some active character must be weak
// enough in either named stat. The comparator is intentionally <=, the
// opposite of power cards.
func trainingUsable(card *catalog.Card, team Team) bool {
	if card.Type1 == "" || card.Type2 == "" {
		return true
	}
	limit, ok := ParseInt(card.ValueToUse)
	if !ok {
		debugf("rules: training %q has unparseable value_to_use %q", card.Name, card.ValueToUse)
		return true
	}
	for _, m := range team.Active {
		if m.Effective.Stat(card.Type1) <= limit || m.Effective.Stat(card.Type2) <= limit {
			return true
		}
	}
	return false
}

func basicUniverseUsable(card *catalog.Card, team Team) bool {
	threshold, ok := ParseOrGreater(card.ValueToUse)
	if !ok {
		debugf("rules: basic-universe %q has unparseable value_to_use %q", card.Name, card.ValueToUse)
		return true
	}
	for _, m := range team.Active {
		if m.Raw.Stat(card.StatType) >= threshold {
			return true
		}
	}
	return false
}

// powerUsable gates power cards on a single active character's effective
// stats. Any-Power reads the character's best stat; Multi-Power reads the
// sum of the two highest stats, not the single highest.
func powerUsable(card *catalog.Card, team Team) bool {
	for _, m := range team.Active {
		var have int
		switch card.PowerType {
		case catalog.PowerAny:
			have = m.Effective.Max()
		case catalog.PowerMulti, "Multi Power":
			have = m.Effective.TopTwoSum()
		case catalog.PowerEnergy, catalog.PowerCombat, catalog.PowerBruteForce, catalog.PowerIntelligence:
			have = m.Effective.Stat(card.PowerType)
		default:
			return true
		}
		if have >= card.Value {
			return true
		}
	}
	return false
}
