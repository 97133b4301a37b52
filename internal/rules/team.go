// Package rules implements the deck legality and card usability engine: team
// aggregation over knocked-out characters, per-type usability checks, and the
// deck construction validator.
package rules

import (
	"strings"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
)

// EffectiveStats returns the stats used for usability and threshold checks.
// Two characters carry printed abilities granting a fixed stat floor; the
// floor applies only to these checks, never to displayed stats.
func EffectiveStats(c *catalog.Card) catalog.Stats {
	s := c.Stats
	name := strings.ToLower(c.Name)
	if strings.Contains(name, "john carter") && s.BruteForce < 8 {
		s.BruteForce = 8
	}
	if strings.Contains(name, "time traveler") && s.Intelligence < 8 {
		s.Intelligence = 8
	}
	return s
}

// TeamMember is one resolved character on the team.
type TeamMember struct {
	CardID string
	Name   string

	// Raw holds the printed stats; ally and basic-universe gates read these.
	Raw catalog.Stats

	// Effective holds the floor-adjusted stats; power, training and teamwork
	// gates read these.
	Effective catalog.Stats
}

// Team is the resolved character roster for one usability evaluation:
// the active (non-KO) members, the knocked-out members, and the per-stat
// maximum over the active members' effective stats.
type Team struct {
	Active  []TeamMember
	KO      []TeamMember
	MaxStat catalog.Stats
}

// AssembleTeam resolves the deck's character entries against the catalog and
// splits them by KO state. Entries with no catalog record are skipped;
// incomplete card data must never block evaluation. An empty active roster
// yields all-zero team stats, which downstream checks report as unusable.
func AssembleTeam(entries []deck.Entry, ko map[string]struct{}, cat catalog.Lookup) Team {
	var team Team
	for _, e := range deck.Characters(entries) {
		card, ok := cat.Lookup(catalog.TypeCharacter, e.CardID)
		if !ok {
			continue
		}
		m := TeamMember{
			CardID:    e.CardID,
			Name:      card.Name,
			Raw:       card.Stats,
			Effective: EffectiveStats(card),
		}
		if _, out := ko[e.CardID]; out {
			team.KO = append(team.KO, m)
			continue
		}
		team.Active = append(team.Active, m)
		team.MaxStat = maxStats(team.MaxStat, m.Effective)
	}
	return team
}

// TotalCharacters returns the full roster size, KO'd members included.
func (t Team) TotalCharacters() int {
	return len(t.Active) + len(t.KO)
}

func (t Team) activeNamed(name string) bool {
	for _, m := range t.Active {
		if m.Name == name {
			return true
		}
	}
	return false
}

func (t Team) koNamed(name string) bool {
	for _, m := range t.KO {
		if m.Name == name {
			return true
		}
	}
	return false
}

func (t Team) isKO(cardID string) bool {
	for _, m := range t.KO {
		if m.CardID == cardID {
			return true
		}
	}
	return false
}

func maxStats(a, b catalog.Stats) catalog.Stats {
	if b.Energy > a.Energy {
		a.Energy = b.Energy
	}
	if b.Combat > a.Combat {
		a.Combat = b.Combat
	}
	if b.BruteForce > a.BruteForce {
		a.BruteForce = b.BruteForce
	}
	if b.Intelligence > a.Intelligence {
		a.Intelligence = b.Intelligence
	}
	return a
}
