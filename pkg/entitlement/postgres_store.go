package entitlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coldkit/coldkit/pkg/pg"
)

// PostgresStore is a Store implementation backed by a pgx connection pool.
// The entitlements table keys on account_id, so the database's uniqueness
// constraint provides create idempotence and its single-row conditional
// update provides race-free decrements.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a postgres-backed entitlement store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("entitlement: pgx pool is required")
	}
	return &PostgresStore{pool: pool}
}

const entitlementColumns = `account_id, tokens, monthly_allowance, plan,
	period_start, period_end, tokens_reset_at, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+entitlementColumns+` FROM entitlements WHERE account_id = $1`,
		accountID)

	ent, err := scanEntitlement(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrEntitlementNotFound
		}
		return nil, err
	}
	return ent, nil
}

func (s *PostgresStore) Create(ctx context.Context, ent *Entitlement) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO entitlements (`+entitlementColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ent.AccountID, ent.Tokens, ent.MonthlyAllowance, string(ent.Plan),
		ent.PeriodStart, ent.PeriodEnd, ent.TokensResetAt, ent.CreatedAt, ent.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEntitlementAlreadyExists
		}
		return err
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, ent *Entitlement) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE entitlements SET
			tokens = $2,
			monthly_allowance = $3,
			plan = $4,
			period_start = $5,
			period_end = $6,
			tokens_reset_at = $7,
			updated_at = $8
		 WHERE account_id = $1`,
		ent.AccountID, ent.Tokens, ent.MonthlyAllowance, string(ent.Plan),
		ent.PeriodStart, ent.PeriodEnd, ent.TokensResetAt, ent.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntitlementNotFound
	}
	return nil
}

// SpendToken issues the decrement as a single conditional update so two
// concurrent generation requests can never spend the same token twice.
func (s *PostgresStore) SpendToken(ctx context.Context, accountID uuid.UUID) (*Entitlement, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE entitlements SET
			tokens = tokens - 1,
			updated_at = now()
		 WHERE account_id = $1 AND tokens > 0
		 RETURNING `+entitlementColumns,
		accountID)

	ent, err := scanEntitlement(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			// Distinguish "no row" from "row with empty balance".
			if _, getErr := s.Get(ctx, accountID); getErr != nil {
				return nil, getErr
			}
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return ent, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntitlement(row rowScanner) (*Entitlement, error) {
	var ent Entitlement
	var plan string
	if err := row.Scan(
		&ent.AccountID, &ent.Tokens, &ent.MonthlyAllowance, &plan,
		&ent.PeriodStart, &ent.PeriodEnd, &ent.TokensResetAt,
		&ent.CreatedAt, &ent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ent.Plan = Plan(plan)
	return &ent, nil
}

// Compile-time interface assertion
var _ Store = (*PostgresStore)(nil)
