package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coldkit/coldkit/pkg/pg"
)

// PostgresStore is a Store implementation backed by a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a postgres-backed profile store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("profile: pgx pool is required")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx,
		`SELECT account_id, about_text, summary, updated_at
		 FROM profiles WHERE account_id = $1`,
		accountID).Scan(&p.AccountID, &p.AboutText, &p.Summary, &p.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, p *Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (account_id, about_text, summary, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (account_id) DO UPDATE SET
			about_text = EXCLUDED.about_text,
			summary = EXCLUDED.summary,
			updated_at = EXCLUDED.updated_at`,
		p.AccountID, p.AboutText, p.Summary, p.UpdatedAt)
	return err
}

func (s *PostgresStore) AddDocument(ctx context.Context, doc *UserDocument) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_documents (id, account_id, name, content_type, size_bytes, storage_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID, doc.AccountID, doc.Name, doc.ContentType, doc.SizeBytes, doc.StorageKey, doc.CreatedAt)
	return err
}

func (s *PostgresStore) ListDocuments(ctx context.Context, accountID uuid.UUID) ([]UserDocument, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, account_id, name, content_type, size_bytes, storage_key, created_at
		 FROM user_documents WHERE account_id = $1
		 ORDER BY created_at DESC`,
		accountID)
	if err != nil {
		return nil, err
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (UserDocument, error) {
		var doc UserDocument
		err := row.Scan(&doc.ID, &doc.AccountID, &doc.Name, &doc.ContentType,
			&doc.SizeBytes, &doc.StorageKey, &doc.CreatedAt)
		return doc, err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, accountID, docID uuid.UUID) (*UserDocument, error) {
	var doc UserDocument
	err := s.pool.QueryRow(ctx,
		`DELETE FROM user_documents WHERE id = $1 AND account_id = $2
		 RETURNING id, account_id, name, content_type, size_bytes, storage_key, created_at`,
		docID, accountID).Scan(&doc.ID, &doc.AccountID, &doc.Name, &doc.ContentType,
		&doc.SizeBytes, &doc.StorageKey, &doc.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Compile-time interface assertion
var _ Store = (*PostgresStore)(nil)
