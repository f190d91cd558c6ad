package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gasolinera-golang/internal/domain"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory_movements (
	id              TEXT PRIMARY KEY,
	fuel_type_id    INTEGER NOT NULL,
	initial_balance REAL NOT NULL DEFAULT 0,
	liters_in       REAL NOT NULL DEFAULT 0,
	liters_out      REAL NOT NULL DEFAULT 0,
	final_balance   REAL NOT NULL DEFAULT 0,
	automatic       INTEGER NOT NULL DEFAULT 0,
	recorded_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inventory_movements_recorded_at ON inventory_movements(recorded_at);
CREATE INDEX IF NOT EXISTS idx_inventory_movements_fuel ON inventory_movements(fuel_type_id, recorded_at);
`

const movementColumns = `id, fuel_type_id, initial_balance, liters_in, liters_out, final_balance, automatic, recorded_at`

// Repository persists movements in a SQLite file. recorded_at holds Unix
// nanoseconds so day windows are plain integer ranges.
type Repository struct {
	db *sql.DB
}

func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// StoreMovement inserts m. When m.CarryBalance is set the opening balance is
// read inside the same transaction as the insert.
func (r *Repository) StoreMovement(ctx context.Context, m domain.Movement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin store movement %s: %w", m.ID, err)
	}
	defer tx.Rollback()

	if m.CarryBalance {
		if m.InitialBalance, err = lastFinalBalance(ctx, tx, m.FuelTypeID); err != nil {
			return err
		}
		m.CarryBalance = false
	}
	m.Settle()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO inventory_movements (`+movementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.FuelTypeID, m.InitialBalance, m.LitersIn, m.LitersOut, m.FinalBalance, m.Automatic, m.RecordedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert movement %s: %w", m.ID, err)
	}
	return tx.Commit()
}

func (r *Repository) GetMovement(ctx context.Context, id uuid.UUID) (domain.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM inventory_movements WHERE id = ?`, id.String())
	m, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movement{}, domain.ErrMovementNotFound
	}
	if err != nil {
		return domain.Movement{}, fmt.Errorf("get movement %s: %w", id, err)
	}
	return m, nil
}

func (r *Repository) UpdateMovement(ctx context.Context, m domain.Movement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update movement %s: %w", m.ID, err)
	}
	defer tx.Rollback()

	if err := checkEditable(ctx, tx, m.ID); err != nil {
		return err
	}
	m.Settle()
	_, err = tx.ExecContext(ctx,
		`UPDATE inventory_movements
		 SET fuel_type_id = ?, initial_balance = ?, liters_in = ?, liters_out = ?, final_balance = ?, recorded_at = ?
		 WHERE id = ?`,
		m.FuelTypeID, m.InitialBalance, m.LitersIn, m.LitersOut, m.FinalBalance, m.RecordedAt.UnixNano(), m.ID.String())
	if err != nil {
		return fmt.Errorf("update movement %s: %w", m.ID, err)
	}
	return tx.Commit()
}

func (r *Repository) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete movement %s: %w", id, err)
	}
	defer tx.Rollback()

	if err := checkEditable(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_movements WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete movement %s: %w", id, err)
	}
	return tx.Commit()
}

func (r *Repository) ListMovements(ctx context.Context, from, to time.Time) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM inventory_movements
		 WHERE recorded_at >= ? AND recorded_at < ?
		 ORDER BY recorded_at DESC, id DESC`,
		from.UnixNano(), to.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return out, nil
}

func (r *Repository) LastFinalBalance(ctx context.Context, fuelTypeID int) (float64, error) {
	return lastFinalBalance(ctx, r.db, fuelTypeID)
}

func (r *Repository) SumLitersOut(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(liters_out), 0.0) FROM inventory_movements WHERE recorded_at >= ? AND recorded_at < ?`,
		from.UnixNano(), to.UnixNano()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum liters out: %w", err)
	}
	return total, nil
}

func (r *Repository) PurgeMovements(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM inventory_movements`); err != nil {
		return fmt.Errorf("purge movements: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func lastFinalBalance(ctx context.Context, q querier, fuelTypeID int) (float64, error) {
	var balance float64
	err := q.QueryRowContext(ctx,
		`SELECT final_balance FROM inventory_movements
		 WHERE fuel_type_id = ?
		 ORDER BY recorded_at DESC, rowid DESC LIMIT 1`, fuelTypeID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("last final balance for fuel %d: %w", fuelTypeID, err)
	}
	return balance, nil
}

func checkEditable(ctx context.Context, q querier, id uuid.UUID) error {
	var automatic bool
	err := q.QueryRowContext(ctx, `SELECT automatic FROM inventory_movements WHERE id = ?`, id.String()).Scan(&automatic)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrMovementNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup movement %s: %w", id, err)
	}
	if automatic {
		return domain.ErrAutomaticMovement
	}
	return nil
}

func scanMovement(s scanner) (domain.Movement, error) {
	var (
		m          domain.Movement
		id         string
		recordedAt int64
	)
	if err := s.Scan(&id, &m.FuelTypeID, &m.InitialBalance, &m.LitersIn, &m.LitersOut, &m.FinalBalance, &m.Automatic, &recordedAt); err != nil {
		return domain.Movement{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Movement{}, fmt.Errorf("movement id %q: %w", id, err)
	}
	m.ID = parsed
	m.RecordedAt = time.Unix(0, recordedAt).UTC()
	return m, nil
}
