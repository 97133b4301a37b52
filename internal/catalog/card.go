// Package catalog provides the canonical card model and the in-memory card
// catalog used by the rules and statistics engines.
package catalog

import "strings"

// CardType identifies the kind of card a catalog entry describes.
type CardType string

// Known card types. Unknown type strings are carried through unchanged;
// the rules engine treats them as ungated.
const (
	TypeCharacter        CardType = "character"
	TypeSpecial          CardType = "special"
	TypeAdvancedUniverse CardType = "advanced-universe"
	TypeBasicUniverse    CardType = "basic-universe"
	TypeAllyUniverse     CardType = "ally-universe"
	TypeTeamwork         CardType = "teamwork"
	TypeTraining         CardType = "training"
	TypePower            CardType = "power"
	TypeMission          CardType = "mission"
	TypeEvent            CardType = "event"
	TypeLocation         CardType = "location"
)

// Sentinel values used on printed cards.
const (
	// AnyCharacter marks a special usable by every character.
	AnyCharacter = "Any Character"

	// AnyMission marks an event usable regardless of the selected mission set.
	AnyMission = "Any-Mission"
)

// Power card power types.
const (
	PowerEnergy       = "Energy"
	PowerCombat       = "Combat"
	PowerBruteForce   = "Brute Force"
	PowerIntelligence = "Intelligence"
	PowerAny          = "Any-Power"
	PowerMulti        = "Multi-Power"
)

// Key is the composite catalog key for a card.
type Key struct {
	Type CardType
	ID   string
}

// Stats holds the four character stats.
type Stats struct {
	Energy       int `json:"energy"`
	Combat       int `json:"combat"`
	BruteForce   int `json:"brute_force"`
	Intelligence int `json:"intelligence"`
}

// Card is the canonical catalog entry. Fields are populated per type; the
// normalization step in normalize.go guarantees core logic never has to probe
// for alternate raw field names.
type Card struct {
	Type CardType `json:"type"`
	ID   string   `json:"id"`
	Name string   `json:"name"`

	// Characters
	Stats       Stats `json:"stats,omitempty"`
	ThreatLevel int   `json:"threat_level,omitempty"`

	// Specials / advanced-universe: owning character name, or AnyCharacter.
	Character  string   `json:"character,omitempty"`
	Characters []string `json:"characters,omitempty"`

	// Missions / events
	MissionSet string `json:"mission_set,omitempty"`

	// Power cards
	PowerType string `json:"power_type,omitempty"`
	Value     int    `json:"value,omitempty"`

	// Teamwork cards
	ToUse               string `json:"to_use,omitempty"`
	FollowupAttackTypes string `json:"followup_attack_types,omitempty"`

	// Ally-universe cards
	StatToUse     string `json:"stat_to_use,omitempty"`
	StatTypeToUse string `json:"stat_type_to_use,omitempty"`

	// Training cards
	Type1      string `json:"type_1,omitempty"`
	Type2      string `json:"type_2,omitempty"`
	ValueToUse string `json:"value_to_use,omitempty"`

	// Basic/advanced-universe stat gate ("type" on the printed card).
	StatType string `json:"stat_type,omitempty"`
}

// Key returns the card's composite catalog key.
func (c *Card) Key() Key {
	return Key{Type: c.Type, ID: c.ID}
}

// OwnedByAnyCharacter reports whether the card is usable by every character
// rather than a specific owner.
func (c *Card) OwnedByAnyCharacter() bool {
	if c.Character == AnyCharacter {
		return true
	}
	for _, name := range c.Characters {
		if name == AnyCharacter {
			return true
		}
	}
	return false
}

// Stat returns the named stat from s. Unknown names return 0.
func (s Stats) Stat(name string) int {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "energy":
		return s.Energy
	case "combat", "fighting":
		return s.Combat
	case "brute force", "brute_force", "strength":
		return s.BruteForce
	case "intelligence":
		return s.Intelligence
	}
	return 0
}

// Max returns the largest of the four stats.
func (s Stats) Max() int {
	max := s.Energy
	for _, v := range []int{s.Combat, s.BruteForce, s.Intelligence} {
		if v > max {
			max = v
		}
	}
	return max
}

// TopTwoSum returns the sum of the two highest stats. Multi-Power cards gate
// on this sum, not on the single highest stat.
func (s Stats) TopTwoSum() int {
	vals := []int{s.Energy, s.Combat, s.BruteForce, s.Intelligence}
	first, second := 0, 0
	for _, v := range vals {
		if v > first {
			first, second = v, first
		} else if v > second {
			second = v
		}
	}
	return first + second
}
