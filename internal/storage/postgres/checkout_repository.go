package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

const opTimeout = 5 * time.Second

// checkoutRepository хранит сессию как JSONB-документ с выделенными
// колонками для статуса, версии и времени создания.
type checkoutRepository struct {
	db *sql.DB
}

// NewCheckoutRepository создаёт PostgreSQL-реализацию CheckoutRepository.
func NewCheckoutRepository(store *Store) domain.CheckoutRepository {
	return &checkoutRepository{db: store.DB()}
}

func (r *checkoutRepository) Create(session domain.CheckoutSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	document, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal checkout session: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO checkout_sessions (
			id, status, currency, document, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		session.ID, string(session.Status), session.Currency,
		document, session.Version, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCheckoutVersionConflict
		}
		return fmt.Errorf("insert checkout session: %w", err)
	}

	return nil
}

func (r *checkoutRepository) Get(id string) (domain.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		document  []byte
		version   int64
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT document, version, created_at, updated_at
		FROM checkout_sessions
		WHERE id = $1
	`, id).Scan(&document, &version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CheckoutSession{}, domain.ErrCheckoutNotFound
		}
		return domain.CheckoutSession{}, fmt.Errorf("select checkout session: %w", err)
	}

	return unmarshalSession(document, version, createdAt, updatedAt)
}

func (r *checkoutRepository) List(limit int) ([]domain.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT document, version, created_at, updated_at
		FROM checkout_sessions
		ORDER BY created_at ASC, id ASC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list checkout sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.CheckoutSession, 0)
	for rows.Next() {
		var (
			document  []byte
			version   int64
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&document, &version, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan checkout session row: %w", err)
		}
		session, err := unmarshalSession(document, version, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkout session rows: %w", err)
	}

	return sessions, nil
}

func (r *checkoutRepository) Save(session domain.CheckoutSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	document, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal checkout session: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE checkout_sessions
		SET status = $1,
		    currency = $2,
		    document = $3,
		    version = version + 1,
		    updated_at = $4
		WHERE id = $5
		  AND version = $6
	`,
		string(session.Status), session.Currency, document,
		session.UpdatedAt, session.ID, session.Version,
	)
	if err != nil {
		return fmt.Errorf("update checkout session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.sessionExists(ctx, session.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrCheckoutNotFound
		}
		return domain.ErrCheckoutVersionConflict
	}

	return nil
}

func (r *checkoutRepository) sessionExists(ctx context.Context, id string) (bool, error) {
	var found string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM checkout_sessions WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check checkout session exists: %w", err)
}

// unmarshalSession восстанавливает сессию из документа и служебных колонок.
// Version и таймстемпы исключены из JSON-снапшота и живут только в колонках.
func unmarshalSession(document []byte, version int64, createdAt, updatedAt time.Time) (domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	if err := json.Unmarshal(document, &session); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("unmarshal checkout session: %w", err)
	}
	session.Version = version
	session.CreatedAt = createdAt
	session.UpdatedAt = updatedAt
	return session, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.CheckoutRepository = (*checkoutRepository)(nil)
