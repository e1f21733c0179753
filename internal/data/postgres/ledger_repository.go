package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/debtwise-ledger/internal/domain/ledger"
	"github.com/debtwise-ledger/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Store interface for PostgreSQL.
// Events live in the same database as the accounts so appends commit
// atomically with the row lock held on the owning account.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger store
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Store {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the store with a transaction
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Store {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const eventColumns = `id, account_id, kind, amount, occurred_at, description, recorded_at`

// Append stores a new event. Events are never updated or deleted.
func (r *LedgerRepository) Append(ctx context.Context, event *ledger.Event) error {
	query := `
		INSERT INTO ledger_events (id, account_id, kind, amount, occurred_at, description, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		event.ID,
		event.AccountID,
		string(event.Kind),
		event.Amount,
		event.OccurredAt,
		event.Description,
		event.RecordedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ledger.ErrDuplicateEvent{EventID: event.ID}
		}
		r.logger.Error("Failed to append ledger event", "event_id", event.ID, "error", err)
		return fmt.Errorf("failed to append ledger event: %w", err)
	}

	return nil
}

// ListByAccount returns all events for an account in replay order
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM ledger_events
		WHERE account_id = $1
		ORDER BY occurred_at, id
	`

	rows, err := r.querier.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to list ledger events", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}
	defer rows.Close()

	return r.collectEvents(rows)
}

// ListByAccountPaged returns a page of events in replay order
func (r *LedgerRepository) ListByAccountPaged(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]ledger.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM ledger_events
		WHERE account_id = $1
		ORDER BY occurred_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list ledger events page", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list ledger events page: %w", err)
	}
	defer rows.Close()

	return r.collectEvents(rows)
}

// CountByAccount returns the number of events recorded for an account
func (r *LedgerRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_events WHERE account_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count ledger events", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count ledger events: %w", err)
	}

	return count, nil
}

func (r *LedgerRepository) collectEvents(rows pgx.Rows) ([]ledger.Event, error) {
	var events []ledger.Event
	for rows.Next() {
		var ev ledger.Event
		var kind string
		err := rows.Scan(
			&ev.ID,
			&ev.AccountID,
			&kind,
			&ev.Amount,
			&ev.OccurredAt,
			&ev.Description,
			&ev.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger event row: %w", err)
		}
		ev.Kind = ledger.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger event rows: %w", err)
	}
	return events, nil
}
