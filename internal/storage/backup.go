package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/overpower-tools/deckbuilder/internal/deck"
)

// backupSnapshot is the serialized form of a deck backup.
type backupSnapshot struct {
	Version int          `json:"version"`
	Decks   []backupDeck `json:"decks"`
}

type backupDeck struct {
	Name    string       `json:"name"`
	Entries []deck.Entry `json:"entries"`
}

// ExportDecks writes a JSON snapshot of every saved deck to w. When password
// is non-empty, the snapshot is encrypted and prefixed with a magic header so
// imports can tell the two formats apart.
func (s *Service) ExportDecks(ctx context.Context, w io.Writer, password string) error {
	records, err := s.ListDecks(ctx)
	if err != nil {
		return err
	}

	snapshot := backupSnapshot{Version: 1}
	for _, rec := range records {
		entries, err := s.GetDeckEntries(ctx, rec.ID)
		if err != nil {
			return err
		}
		snapshot.Decks = append(snapshot.Decks, backupDeck{Name: rec.Name, Entries: entries})
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if password == "" {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
		return nil
	}

	encrypted, err := encryptData(payload, password)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(backupMagicHeader)); err != nil {
		return fmt.Errorf("failed to write backup header: %w", err)
	}
	if _, err := w.Write(encrypted); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ImportDecks reads a backup produced by ExportDecks and recreates its decks.
// Imported decks are created fresh; existing decks are left untouched.
// Returns the number of decks imported.
func (s *Service) ImportDecks(ctx context.Context, r io.Reader, password string) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup: %w", err)
	}

	if bytes.HasPrefix(data, []byte(backupMagicHeader)) {
		data, err = decryptData(data[len(backupMagicHeader):], password)
		if err != nil {
			return 0, err
		}
	}

	var snapshot backupSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return 0, fmt.Errorf("failed to parse backup: %w", err)
	}

	for _, d := range snapshot.Decks {
		rec, err := s.CreateDeck(ctx, d.Name)
		if err != nil {
			return 0, err
		}
		if err := s.ReplaceDeckEntries(ctx, rec.ID, d.Entries); err != nil {
			return 0, err
		}
	}
	return len(snapshot.Decks), nil
}
