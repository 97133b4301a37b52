package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeAlternateFieldNames(t *testing.T) {
	tests := []struct {
		name     string
		cardType CardType
		id       string
		data     string
		check    func(t *testing.T, c *Card)
	}{
		{
			name:     "character with canonical fields",
			cardType: TypeCharacter,
			id:       "c1",
			data:     `{"name":"Surge","energy":8,"combat":4,"brute_force":3,"intelligence":2,"threat_level":10}`,
			check: func(t *testing.T, c *Card) {
				if c.Name != "Surge" || c.Stats.Energy != 8 || c.Stats.BruteForce != 3 || c.ThreatLevel != 10 {
					t.Errorf("card = %+v", c)
				}
			},
		},
		{
			name:     "character with legacy field names",
			cardType: TypeCharacter,
			id:       "c2",
			data:     `{"card_name":"Brawler","energy":"3","fighting":7,"bruteForce":6,"intelligence":1,"threatLevel":"10"}`,
			check: func(t *testing.T, c *Card) {
				if c.Name != "Brawler" || c.Stats.Energy != 3 || c.Stats.Combat != 7 || c.Stats.BruteForce != 6 || c.ThreatLevel != 10 {
					t.Errorf("card = %+v", c)
				}
			},
		},
		{
			name:     "teamwork follow-up field variants",
			cardType: TypeTeamwork,
			id:       "t1",
			data:     `{"name":"Flank","to_use":"6 Combat","follow_up_attack_types":"Energy, Combat"}`,
			check: func(t *testing.T, c *Card) {
				if c.ToUse != "6 Combat" || c.FollowupAttackTypes != "Energy, Combat" {
					t.Errorf("card = %+v", c)
				}
			},
		},
		{
			name:     "type and id read from the record when absent",
			cardType: "",
			id:       "",
			data:     `{"card_type":"power","card_id":"p1","name":"Power 5","power_type":"Energy","value":5}`,
			check: func(t *testing.T, c *Card) {
				if c.Type != TypePower || c.ID != "p1" || c.PowerType != "Energy" || c.Value != 5 {
					t.Errorf("card = %+v", c)
				}
			},
		},
		{
			name:     "special with multi-owner list",
			cardType: TypeSpecial,
			id:       "s1",
			data:     `{"name":"Rally","character":"Surge","characters":["Surge","Any Character"]}`,
			check: func(t *testing.T, c *Card) {
				if !c.OwnedByAnyCharacter() {
					t.Errorf("card should read as any-character usable: %+v", c)
				}
			},
		},
		{
			name:     "malformed numeric fields degrade to zero",
			cardType: TypeCharacter,
			id:       "c3",
			data:     `{"name":"Glitch","energy":{"bad":true},"combat":"not a number"}`,
			check: func(t *testing.T, c *Card) {
				if c.Stats.Energy != 0 || c.Stats.Combat != 0 {
					t.Errorf("card = %+v", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Normalize(tt.cardType, tt.id, []byte(tt.data))
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestNormalizeRejectsRecordWithoutID(t *testing.T) {
	if _, err := Normalize(TypePower, "", []byte(`{"name":"Orphan"}`)); err == nil {
		t.Error("expected error for record without id")
	}
}

func TestStats(t *testing.T) {
	s := Stats{Energy: 8, Combat: 4, BruteForce: 3, Intelligence: 2}

	if got := s.Max(); got != 8 {
		t.Errorf("Max() = %d, want 8", got)
	}
	if got := s.TopTwoSum(); got != 12 {
		t.Errorf("TopTwoSum() = %d, want 12", got)
	}
	if got := s.Stat("Brute Force"); got != 3 {
		t.Errorf("Stat(Brute Force) = %d, want 3", got)
	}
	if got := s.Stat("brute_force"); got != 3 {
		t.Errorf("Stat(brute_force) = %d, want 3", got)
	}
	if got := s.Stat("unknown"); got != 0 {
		t.Errorf("Stat(unknown) = %d, want 0", got)
	}

	tied := Stats{Energy: 5, Combat: 5, BruteForce: 5, Intelligence: 5}
	if got := tied.TopTwoSum(); got != 10 {
		t.Errorf("TopTwoSum() with ties = %d, want 10", got)
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	s.Put(&Card{Type: TypePower, ID: "p1", Name: "Power 5"})
	s.Put(&Card{Type: TypePower, ID: "p2", Name: "Power 6"})
	s.Put(&Card{Type: TypeCharacter, ID: "c1", Name: "Surge"})

	if _, ok := s.Lookup(TypePower, "p1"); !ok {
		t.Error("expected p1 in store")
	}
	if _, ok := s.Lookup(TypeCharacter, "p1"); ok {
		t.Error("lookup must key on type and id together")
	}
	if c, ok := s.FindByName(TypeCharacter, "surge"); !ok || c.ID != "c1" {
		t.Errorf("FindByName = %+v, %v", c, ok)
	}
	if got := len(s.ByType(TypePower)); got != 2 {
		t.Errorf("ByType(power) = %d cards, want 2", got)
	}

	s.ReplaceAll([]*Card{{Type: TypePower, ID: "p9", Name: "Power 9"}})
	if s.Len() != 1 {
		t.Errorf("Len() after ReplaceAll = %d, want 1", s.Len())
	}
	if _, ok := s.Lookup(TypePower, "p1"); ok {
		t.Error("ReplaceAll must drop previous contents")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	dump := `{
		"character": {
			"c1": {"name":"Surge","energy":8,"combat":4,"brute_force":3,"intelligence":2,"threat_level":10}
		},
		"power": {
			"p1": {"name":"Power 5","power_type":"Energy","value":5},
			"p2": {"name":"Power 6","power_type":"Combat","value":6}
		}
	}`
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}

	cards, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("LoadFile() = %d cards, want 3", len(cards))
	}

	store := NewStore()
	store.ReplaceAll(cards)
	c, ok := store.Lookup(TypeCharacter, "c1")
	if !ok || c.Stats.Energy != 8 {
		t.Errorf("character c1 = %+v, %v", c, ok)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed file")
	}
}
