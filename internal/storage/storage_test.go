package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
)

// newTestService opens an in-memory database. A single connection is forced
// because each new connection to ":memory:" would see its own database.
func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := DefaultConfig(":memory:")
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	cfg.AutoMigrate = true

	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(db)
}

func TestCardRoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	card := &catalog.Card{
		Type:        catalog.TypeCharacter,
		ID:          "c1",
		Name:        "Surge",
		Stats:       catalog.Stats{Energy: 8, Combat: 4, BruteForce: 3, Intelligence: 2},
		ThreatLevel: 10,
	}
	require.NoError(t, s.SaveCard(ctx, card))

	got, err := s.GetCard(ctx, catalog.TypeCharacter, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, card.Name, got.Name)
	assert.Equal(t, card.Stats, got.Stats)
	assert.Equal(t, card.ThreatLevel, got.ThreatLevel)

	// Upsert replaces the payload.
	card.ThreatLevel = 12
	require.NoError(t, s.SaveCard(ctx, card))
	got, err = s.GetCard(ctx, catalog.TypeCharacter, "c1")
	require.NoError(t, err)
	assert.Equal(t, 12, got.ThreatLevel)

	missing, err := s.GetCard(ctx, catalog.TypeCharacter, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReplaceCatalogAndLoad(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	cards := []*catalog.Card{
		{Type: catalog.TypePower, ID: "p1", Name: "Power 5", PowerType: "Energy", Value: 5},
		{Type: catalog.TypePower, ID: "p2", Name: "Power 6", PowerType: "Combat", Value: 6},
		{Type: catalog.TypeCharacter, ID: "c1", Name: "Surge"},
	}
	require.NoError(t, s.ReplaceCatalog(ctx, cards))

	n, err := s.CountCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	store, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	c, ok := store.Lookup(catalog.TypePower, "p1")
	require.True(t, ok)
	assert.Equal(t, 5, c.Value)

	byType, err := s.GetCardsByType(ctx, catalog.TypePower)
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	// A second replace drops the previous contents.
	require.NoError(t, s.ReplaceCatalog(ctx, cards[:1]))
	n, err = s.CountCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeckLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	rec, err := s.CreateDeck(ctx, "Alpha Strike")
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	require.NoError(t, s.SetDeckCard(ctx, rec.ID, deck.Entry{
		Type: catalog.TypePower, CardID: "p1", Quantity: 4,
	}))
	require.NoError(t, s.SetDeckCard(ctx, rec.ID, deck.Entry{
		Type: catalog.TypeSpecial, CardID: "s1", Quantity: 1, ExcludeFromDraw: true,
	}))

	entries, err := s.GetDeckEntries(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].ExcludeFromDraw)

	// Quantity updates overwrite; zero removes.
	require.NoError(t, s.SetDeckCard(ctx, rec.ID, deck.Entry{
		Type: catalog.TypePower, CardID: "p1", Quantity: 6,
	}))
	require.NoError(t, s.SetDeckCard(ctx, rec.ID, deck.Entry{
		Type: catalog.TypeSpecial, CardID: "s1", Quantity: 0,
	}))
	entries, err = s.GetDeckEntries(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 6, entries[0].Quantity)

	require.NoError(t, s.RenameDeck(ctx, rec.ID, "Beta Strike"))
	got, err := s.GetDeckRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta Strike", got.Name)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	assert.Len(t, decks, 1)

	require.NoError(t, s.DeleteDeck(ctx, rec.ID))
	gone, err := s.GetDeckRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Error(t, s.RenameDeck(ctx, rec.ID, "Ghost"))
}

func TestReplaceDeckEntries(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	rec, err := s.CreateDeck(ctx, "Imported")
	require.NoError(t, err)

	require.NoError(t, s.SetDeckCard(ctx, rec.ID, deck.Entry{
		Type: catalog.TypePower, CardID: "old", Quantity: 3,
	}))

	next := []deck.Entry{
		{Type: catalog.TypeCharacter, CardID: "c1", Quantity: 1},
		{Type: catalog.TypePower, CardID: "p1", Quantity: 51},
		{Type: catalog.TypePower, CardID: "skipped", Quantity: 0},
	}
	require.NoError(t, s.ReplaceDeckEntries(ctx, rec.ID, next))

	entries, err := s.GetDeckEntries(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestBackupRoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	rec, err := s.CreateDeck(ctx, "Alpha Strike")
	require.NoError(t, err)
	require.NoError(t, s.SetDeckCard(ctx, rec.ID, deck.Entry{
		Type: catalog.TypePower, CardID: "p1", Quantity: 4,
	}))

	t.Run("plaintext", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportDecks(ctx, &buf, ""))

		n, err := s.ImportDecks(ctx, &buf, "")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		decks, err := s.ListDecks(ctx)
		require.NoError(t, err)
		assert.Len(t, decks, 2)
	})

	t.Run("encrypted", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportDecks(ctx, &buf, "hunter2"))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(backupMagicHeader)))

		// Wrong password fails without importing anything.
		_, err := s.ImportDecks(ctx, bytes.NewReader(buf.Bytes()), "wrong")
		assert.Error(t, err)

		n, err := s.ImportDecks(ctx, bytes.NewReader(buf.Bytes()), "hunter2")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
	})
}

func TestEncryptDecryptData(t *testing.T) {
	plaintext := []byte(`{"decks":[]}`)

	encrypted, err := encryptData(plaintext, "secret")
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)

	decrypted, err := decryptData(encrypted, "secret")
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)

	_, err = decryptData(encrypted, "other")
	assert.Error(t, err)

	_, err = decryptData([]byte("short"), "secret")
	assert.Error(t, err)

	_, err = encryptData(plaintext, "")
	assert.Error(t, err)
}
