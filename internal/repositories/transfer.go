package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ymx/internal/models"
	"github.com/desertthunder/ymx/internal/shared"
)

// ErrTransferNotFound is returned by [TransferRepository.Get] and [TransferRepository.Delete] for unknown IDs.
var ErrTransferNotFound = errors.New("transfer not found")

// TransferRepository implements models.Repository[*models.TransferRecord] for the transfer history.
type TransferRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.TransferRecord] = (*TransferRepository)(nil)

// NewTransferRepository creates a new TransferRepository with the given database connection
func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create inserts a record with a generated ID
func (r *TransferRepository) Create(record *models.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	createdAt := record.CreatedAt()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO transfers (id, user_name, playlist_name, destination_id, total, matched, unmatched, failed_chunks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		record.User,
		record.PlaylistName,
		record.DestinationID,
		record.Total,
		record.Matched,
		record.Unmatched,
		record.FailedChunks,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	record.SetID(id)
	return nil
}

// Get retrieves a record by ID
func (r *TransferRepository) Get(id string) (*models.TransferRecord, error) {
	query := `
		SELECT id, user_name, playlist_name, destination_id, total, matched, unmatched, failed_chunks, created_at
		FROM transfers
		WHERE id = ?
	`

	record, err := scanTransfer(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTransferNotFound, id)
	}
	return record, err
}

// Delete removes a record by ID
func (r *TransferRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM transfers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrTransferNotFound, id)
	}

	return nil
}

// List retrieves records newest first.
//
// Supported criteria: "user" (string) and "limit" (int).
func (r *TransferRepository) List(criteria map[string]any) ([]*models.TransferRecord, error) {
	query := `
		SELECT id, user_name, playlist_name, destination_id, total, matched, unmatched, failed_chunks, created_at
		FROM transfers
		WHERE 1 = 1
	`

	args := []any{}

	if user, ok := criteria["user"].(string); ok && user != "" {
		query += " AND user_name = ?"
		args = append(args, user)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var records []*models.TransferRecord
	for rows.Next() {
		record, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTransfer scans a single row into a [models.TransferRecord]; [sql.ErrNoRows] is returned unwrapped.
func scanTransfer(row scanner) (*models.TransferRecord, error) {
	var (
		id        string
		record    models.TransferRecord
		createdAt time.Time
	)

	err := row.Scan(
		&id,
		&record.User,
		&record.PlaylistName,
		&record.DestinationID,
		&record.Total,
		&record.Matched,
		&record.Unmatched,
		&record.FailedChunks,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transfer: %w", err)
	}

	return models.RestoreTransferRecord(id, createdAt, record), nil
}
