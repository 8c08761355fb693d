package identity

import (
	"context"
	"database/sql"
)

// PostgresStore persists senders in a relational table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the senders table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS senders (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			email_address TEXT,
			sms_sender TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Sender, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, email_address, sms_sender, is_default, created_at, updated_at
		FROM senders WHERE id = $1
	`, id)
	sender, err := scanSender(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sender, err
}

func (s *PostgresStore) Set(ctx context.Context, sender *Sender) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO senders (id, type, email_address, sms_sender, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			email_address = EXCLUDED.email_address,
			sms_sender = EXCLUDED.sms_sender,
			is_default = EXCLUDED.is_default,
			updated_at = EXCLUDED.updated_at
	`, sender.ID, string(sender.Type), nullString(sender.EmailAddress),
		nullString(sender.SMSSender), sender.IsDefault, sender.CreatedAt, sender.UpdatedAt)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM senders WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]*Sender, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, email_address, sms_sender, is_default, created_at, updated_at
		FROM senders ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var senders []*Sender
	for rows.Next() {
		sender, err := scanSender(rows)
		if err != nil {
			return nil, err
		}
		senders = append(senders, sender)
	}
	return senders, rows.Err()
}

func (s *PostgresStore) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM senders WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSender(row rowScanner) (*Sender, error) {
	var sender Sender
	var typ string
	var email, sms sql.NullString
	if err := row.Scan(&sender.ID, &typ, &email, &sms, &sender.IsDefault,
		&sender.CreatedAt, &sender.UpdatedAt); err != nil {
		return nil, err
	}
	sender.Type = Type(typ)
	sender.EmailAddress = email.String
	sender.SMSSender = sms.String
	return &sender, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
