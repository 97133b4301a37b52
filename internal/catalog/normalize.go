package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// rawCard is a loosely-typed catalog record as found in catalog dumps and
// legacy exports. Field names vary between sources; Normalize resolves the
// alternates into the canonical Card shape so nothing downstream ever probes
// for them.
type rawCard map[string]json.RawMessage

// Normalize converts a raw catalog record into a canonical Card.
// The card type and id may come from the record itself or from the caller
// (catalog dumps group records by type). Returns an error only when the
// record is unusable (no id); individual malformed fields are tolerated.
func Normalize(cardType CardType, id string, data []byte) (*Card, error) {
	var raw rawCard
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse card record: %w", err)
	}

	if t := raw.str("type", "card_type", "cardType"); t != "" && cardType == "" {
		cardType = CardType(t)
	}
	if v := raw.str("id", "card_id", "cardId"); v != "" && id == "" {
		id = v
	}
	if id == "" {
		return nil, fmt.Errorf("card record has no id")
	}

	c := &Card{
		Type: cardType,
		ID:   id,
		Name: raw.str("name", "card_name", "cardName"),
	}

	switch cardType {
	case TypeCharacter:
		c.Stats = Stats{
			Energy:       raw.num("energy"),
			Combat:       raw.num("combat", "fighting"),
			BruteForce:   raw.num("brute_force", "bruteForce", "strength"),
			Intelligence: raw.num("intelligence"),
		}
		c.ThreatLevel = raw.num("threat_level", "threatLevel")
	case TypeSpecial, TypeAdvancedUniverse:
		c.Character = raw.str("character")
		c.Characters = raw.strs("characters")
		c.StatType = raw.str("type", "stat_type")
		c.ValueToUse = raw.str("value_to_use", "valueToUse")
	case TypeMission, TypeEvent:
		c.MissionSet = raw.str("mission_set", "missionSet")
	case TypeLocation:
		c.ThreatLevel = raw.num("threat_level", "threatLevel")
	case TypePower:
		c.PowerType = raw.str("power_type", "powerType")
		c.Value = raw.num("value")
	case TypeTeamwork:
		c.ToUse = raw.str("to_use", "toUse")
		c.FollowupAttackTypes = raw.str("followup_attack_types", "follow_up_attack_types")
	case TypeAllyUniverse:
		c.StatToUse = raw.str("stat_to_use", "statToUse")
		c.StatTypeToUse = raw.str("stat_type_to_use", "statTypeToUse")
	case TypeTraining:
		c.Type1 = raw.str("type_1", "type1")
		c.Type2 = raw.str("type_2", "type2")
		c.ValueToUse = raw.str("value_to_use", "valueToUse")
	case TypeBasicUniverse:
		c.StatType = raw.str("type", "stat_type")
		c.Character = raw.str("character")
		c.ValueToUse = raw.str("value_to_use", "valueToUse")
	}

	return c, nil
}

// str returns the first present string field among names.
func (r rawCard) str(names ...string) string {
	for _, n := range names {
		v, ok := r[n]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// num returns the first present numeric field among names. Numbers stored as
// strings ("8") are accepted; anything else reads as 0.
func (r rawCard) num(names ...string) int {
	for _, n := range names {
		v, ok := r[n]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			return int(f)
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				return i
			}
		}
	}
	return 0
}

// strs returns the first present string-array field among names.
func (r rawCard) strs(names ...string) []string {
	for _, n := range names {
		v, ok := r[n]
		if !ok {
			continue
		}
		var out []string
		if err := json.Unmarshal(v, &out); err == nil {
			return out
		}
	}
	return nil
}
