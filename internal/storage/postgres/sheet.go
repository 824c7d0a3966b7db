package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/statforge/internal/game/sheet"
	"github.com/cory-johannsen/statforge/internal/game/stat"
)

// ErrSheetNotFound is returned when a sheet lookup yields no results.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetRepository persists stat sheets: one header row per sheet, one row
// per stat slot keyed by (sheet_id, position).
type SheetRepository struct {
	db *pgxpool.Pool
}

// NewSheetRepository creates a SheetRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSheetRepository(db *pgxpool.Pool) *SheetRepository {
	return &SheetRepository{db: db}
}

// Save upserts the sheet and replaces its stat rows in one transaction.
//
// Postcondition: On success the stored slot order matches the sheet's slot
// order exactly.
func (r *SheetRepository) Save(ctx context.Context, s *sheet.Sheet) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning sheet save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO sheets (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET updated_at = NOW()`,
		s.EntityID(),
	); err != nil {
		return fmt.Errorf("upserting sheet: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sheet_stats WHERE sheet_id = $1`, s.EntityID()); err != nil {
		return fmt.Errorf("clearing sheet stats: %w", err)
	}

	stats := s.Stats()
	for i := range stats {
		sv := stats[i]
		if _, err := tx.Exec(ctx, `
			INSERT INTO sheet_stats
				(sheet_id, position, name, base, mod_add, mod_mult, min, max, value)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			s.EntityID(), i, s.Name(sheet.ID(i)),
			sv.Base, sv.ModAdd, sv.ModMult, sv.Min, sv.Max, sv.Value,
		); err != nil {
			return fmt.Errorf("inserting sheet stat %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing sheet save: %w", err)
	}
	return nil
}

// Load reconstructs a sheet by entity ID.
//
// Postcondition: Returns a sheet whose slot order matches the stored
// positions, or ErrSheetNotFound.
func (r *SheetRepository) Load(ctx context.Context, id uuid.UUID) (*sheet.Sheet, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sheets WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("querying sheet: %w", err)
	}
	if !exists {
		return nil, ErrSheetNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT name, base, mod_add, mod_mult, min, max, value
		FROM sheet_stats WHERE sheet_id = $1 ORDER BY position ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sheet stats: %w", err)
	}
	defer rows.Close()

	var names []string
	var stats []stat.Value
	for rows.Next() {
		var name string
		var sv stat.Value
		if err := rows.Scan(&name, &sv.Base, &sv.ModAdd, &sv.ModMult, &sv.Min, &sv.Max, &sv.Value); err != nil {
			return nil, fmt.Errorf("scanning sheet stat row: %w", err)
		}
		names = append(names, name)
		stats = append(stats, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sheet.Restore(id, names, stats), nil
}

// Delete removes a sheet and its stat rows.
//
// Postcondition: Returns ErrSheetNotFound if no sheet row was deleted.
func (r *SheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	return nil
}

// List returns the IDs of all stored sheets ordered by creation time.
func (r *SheetRepository) List(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM sheets ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning sheet id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
