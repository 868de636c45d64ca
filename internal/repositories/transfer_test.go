package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every pooled connection would otherwise get its own empty database
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newRecord(user, playlist string, matched, unmatched int) *models.TransferRecord {
	outcome := &models.TransferOutcome{PlaylistName: playlist, DestinationID: "dest-" + playlist}
	for range matched {
		outcome.TrackURIs = append(outcome.TrackURIs, "spotify:track:x")
	}
	for range unmatched {
		outcome.Unmatched = append(outcome.Unmatched, models.UnmatchedTrack{Title: "t", Artist: "a"})
	}
	return models.NewTransferRecord(user, outcome)
}

func TestTransferRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewTransferRepository(setupTestDB(t))
		record := newRecord("alice", "Road Trip", 3, 1)

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create transfer: %v", err)
		}
		if record.ID() == "" {
			t.Error("record ID should be set after creation")
		}
	})

	t.Run("Create Validates", func(t *testing.T) {
		repo := NewTransferRepository(setupTestDB(t))

		if err := repo.Create(newRecord("", "Road Trip", 1, 0)); err == nil {
			t.Error("expected validation error for missing user")
		}

		bad := newRecord("alice", "Road Trip", 1, 0)
		bad.Total = 5
		if err := repo.Create(bad); err == nil {
			t.Error("expected validation error for inconsistent counts")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewTransferRepository(setupTestDB(t))
		record := newRecord("alice", "Кино", 2, 2)
		record.FailedChunks = 1
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create transfer: %v", err)
		}

		got, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get transfer: %v", err)
		}

		if got.ID() != record.ID() || got.User != "alice" || got.PlaylistName != "Кино" {
			t.Errorf("unexpected record: %+v", got)
		}
		if got.Total != 4 || got.Matched != 2 || got.Unmatched != 2 || got.FailedChunks != 1 {
			t.Errorf("unexpected counts: %+v", got)
		}
		if got.DestinationID != "dest-Кино" {
			t.Errorf("expected destination id, got %q", got.DestinationID)
		}
		if got.CreatedAt().Sub(record.CreatedAt()).Abs() > time.Second {
			t.Errorf("expected created_at %v, got %v", record.CreatedAt(), got.CreatedAt())
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewTransferRepository(setupTestDB(t))

		if _, err := repo.Get("missing"); !errors.Is(err, ErrTransferNotFound) {
			t.Errorf("expected ErrTransferNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewTransferRepository(setupTestDB(t))
		record := newRecord("alice", "Road Trip", 1, 0)
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create transfer: %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete transfer: %v", err)
		}
		if _, err := repo.Get(record.ID()); !errors.Is(err, ErrTransferNotFound) {
			t.Errorf("expected deleted record to be gone, got %v", err)
		}
		if err := repo.Delete(record.ID()); !errors.Is(err, ErrTransferNotFound) {
			t.Errorf("expected ErrTransferNotFound on second delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewTransferRepository(setupTestDB(t))
		for _, r := range []*models.TransferRecord{
			newRecord("alice", "First", 1, 0),
			newRecord("bob", "Second", 1, 0),
			newRecord("alice", "Third", 0, 1),
		} {
			if err := repo.Create(r); err != nil {
				t.Fatalf("failed to create transfer: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list transfers: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 records, got %d", len(all))
		}
		if all[0].PlaylistName != "Third" {
			t.Errorf("expected newest first, got %s", all[0].PlaylistName)
		}

		alice, err := repo.List(map[string]any{"user": "alice"})
		if err != nil {
			t.Fatalf("failed to list transfers: %v", err)
		}
		if len(alice) != 2 {
			t.Errorf("expected 2 records for alice, got %d", len(alice))
		}

		limited, err := repo.List(map[string]any{"limit": 1})
		if err != nil {
			t.Fatalf("failed to list transfers: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected 1 record with limit, got %d", len(limited))
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTransferRepository(db)
		db.Close()

		if err := repo.Create(newRecord("alice", "Road Trip", 1, 0)); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(nil); err == nil {
			t.Error("expected error on closed database")
		}
	})
}
