package rules

import (
	"fmt"
	"strings"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
)

// Deck construction limits.
const (
	RequiredCharacters    = 4
	RequiredMissions      = 7
	MaxLocations          = 1
	MaxThreat             = 76
	MinDrawPile           = 51
	MinDrawPileWithEvents = 56
)

// Stable error-message prefixes. Import flows validating partially-built
// decks filter on these instead of re-implementing the rules.
const (
	CharacterCountPrefix = "Deck must have exactly 4 characters"
	MissionCountPrefix   = "Deck must have exactly 7 missions"
	DrawPilePrefix       = "Draw pile must have at least"
	ThreatPrefix         = "Threat total"
)

// Result is the outcome of a full deck validation. Every applicable violation
// is reported; nothing fails fast.
type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	IsValid  bool     `json:"is_valid"`
}

// Validate applies the construction rules to a deck snapshot. Legality is
// judged with every character assumed active; the KO session only affects the
// live usability dimming, never deck legality.
func Validate(entries []deck.Entry, cat catalog.Lookup) Result {
	v := &validation{cat: cat, entries: entries}

	v.resolveCharacters()
	v.checkCharacterCount()
	v.checkAngryMob()
	v.checkSpecialOwners()
	v.checkMissions()
	v.checkEvents()
	v.checkLocations()
	v.checkThreat()
	v.checkDrawPile()
	v.checkUsability()

	return Result{
		Errors:   v.errors,
		Warnings: v.warnings,
		IsValid:  len(v.errors) == 0,
	}
}

type validation struct {
	cat     catalog.Lookup
	entries []deck.Entry

	characterNames []string // resolved names, one per character copy
	errors         []string
	warnings       []string
}

func (v *validation) errorf(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validation) warnMissing(t catalog.CardType, id string) {
	v.warnings = append(v.warnings, fmt.Sprintf("Card %s/%s not found in catalog", t, id))
}

func (v *validation) resolveCharacters() {
	for _, e := range deck.Characters(v.entries) {
		card, ok := v.cat.Lookup(catalog.TypeCharacter, e.CardID)
		if !ok {
			v.warnMissing(catalog.TypeCharacter, e.CardID)
			continue
		}
		for i := 0; i < e.Quantity; i++ {
			v.characterNames = append(v.characterNames, card.Name)
		}
	}
}

func (v *validation) checkCharacterCount() {
	n := 0
	for _, e := range deck.Characters(v.entries) {
		n += e.Quantity
	}
	if n != RequiredCharacters {
		v.errorf("%s (%d/%d)", CharacterCountPrefix, n, RequiredCharacters)
	}
}

const angryMob = "Angry Mob"

// angryMobSubtype splits "Angry Mob: Middle Ages" into its subtype suffix.
func angryMobSubtype(name string) string {
	rest := strings.TrimPrefix(name, angryMob)
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest)
}

// checkAngryMob enforces the Angry Mob rules: at most one Angry Mob character
// in the deck, and Angry Mob specials require a present Angry Mob character
// whose subtype matches the special's, when the special names one.
func (v *validation) checkAngryMob() {
	var mobs []string
	for _, name := range v.characterNames {
		if strings.HasPrefix(name, angryMob) {
			mobs = append(mobs, name)
		}
	}
	if len(mobs) > 1 {
		v.errorf("Deck may include at most one %s character", angryMob)
	}

	for _, e := range v.entries {
		if e.Type != catalog.TypeSpecial && e.Type != catalog.TypeAdvancedUniverse {
			continue
		}
		card, ok := v.cat.Lookup(e.Type, e.CardID)
		if !ok {
			continue
		}
		if !strings.HasPrefix(card.Character, angryMob) {
			continue
		}
		if len(mobs) == 0 {
			v.errorf("%q requires an %s character", card.Name, angryMob)
			continue
		}
		want := angryMobSubtype(card.Character)
		if want == "" {
			continue
		}
		if have := angryMobSubtype(mobs[0]); have != want {
			v.errorf("%q requires %s: %s but the deck has %s", card.Name, angryMob, want, mobs[0])
		}
	}
}

// checkSpecialOwners requires the exact owning character to be in the deck
// for specials with a specific non-Angry-Mob owner. This is a legality rule
// over the full deck; KO state does not enter into it.
func (v *validation) checkSpecialOwners() {
	for _, e := range v.entries {
		if e.Type != catalog.TypeSpecial && e.Type != catalog.TypeAdvancedUniverse {
			continue
		}
		card, ok := v.cat.Lookup(e.Type, e.CardID)
		if !ok {
			v.warnMissing(e.Type, e.CardID)
			continue
		}
		owner := card.Character
		if owner == "" || card.OwnedByAnyCharacter() || strings.HasPrefix(owner, angryMob) {
			continue
		}
		found := false
		for _, name := range v.characterNames {
			if name == owner {
				found = true
				break
			}
		}
		if !found {
			v.errorf("%q requires %s in the deck", card.Name, owner)
		}
	}
}

// missionSets returns the distinct mission sets among the deck's missions.
func (v *validation) missionSets() []string {
	seen := make(map[string]struct{})
	var sets []string
	for _, e := range v.entries {
		if e.Type != catalog.TypeMission {
			continue
		}
		card, ok := v.cat.Lookup(catalog.TypeMission, e.CardID)
		if !ok {
			continue
		}
		if _, dup := seen[card.MissionSet]; !dup {
			seen[card.MissionSet] = struct{}{}
			sets = append(sets, card.MissionSet)
		}
	}
	return sets
}

func (v *validation) checkMissions() {
	n := 0
	for _, e := range v.entries {
		if e.Type == catalog.TypeMission {
			n += e.Quantity
		}
	}
	if n != RequiredMissions {
		v.errorf("%s (%d/%d)", MissionCountPrefix, n, RequiredMissions)
	}
	if len(v.missionSets()) > 1 {
		v.errorf("All missions must belong to one mission set")
	}
}

func (v *validation) checkEvents() {
	sets := v.missionSets()
	if len(sets) == 0 {
		return
	}
	for _, e := range v.entries {
		if e.Type != catalog.TypeEvent {
			continue
		}
		card, ok := v.cat.Lookup(catalog.TypeEvent, e.CardID)
		if !ok {
			v.warnMissing(catalog.TypeEvent, e.CardID)
			continue
		}
		if card.MissionSet == catalog.AnyMission {
			continue
		}
		matched := false
		for _, set := range sets {
			if card.MissionSet == set {
				matched = true
				break
			}
		}
		if !matched {
			v.errorf("Event %q does not match the deck's mission set", card.Name)
		}
	}
}

func (v *validation) checkLocations() {
	n := 0
	for _, e := range v.entries {
		if e.Type == catalog.TypeLocation {
			n += e.Quantity
		}
	}
	if n > MaxLocations {
		v.errorf("Deck may include at most %d location", MaxLocations)
	}
}

func (v *validation) checkThreat() {
	total := 0
	for _, e := range v.entries {
		if e.Type != catalog.TypeCharacter && e.Type != catalog.TypeLocation {
			continue
		}
		card, ok := v.cat.Lookup(e.Type, e.CardID)
		if !ok {
			continue
		}
		total += card.ThreatLevel * e.Quantity
	}
	if total > MaxThreat {
		v.errorf("%s %d exceeds the %d point limit", ThreatPrefix, total, MaxThreat)
	}
}

func (v *validation) checkDrawPile() {
	required := MinDrawPile
	for _, e := range v.entries {
		if e.Type == catalog.TypeEvent {
			required = MinDrawPileWithEvents
			break
		}
	}
	size := deck.DrawPileSize(v.entries)
	if size < required {
		v.errorf("%s %d cards (%d/%d)", DrawPilePrefix, required, size, required)
	}
}

// checkUsability runs the per-card usability checks with the full roster
// assumed active. Events pass here; their gating is the mission-set rule.
func (v *validation) checkUsability() {
	team := AssembleTeam(v.entries, nil, v.cat)
	for _, e := range v.entries {
		switch e.Type {
		case catalog.TypeCharacter, catalog.TypeMission, catalog.TypeLocation:
			continue
		}
		card, ok := v.cat.Lookup(e.Type, e.CardID)
		if !ok {
			continue
		}
		if !IsUsable(card, team) {
			v.errorf("%q is not usable by this team", card.Name)
		}
	}
}
