package template

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PostgresStore persists templates in a relational table. Used when
// DATABASE_URL is configured; otherwise the in-memory store serves.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the templates table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL,
			subject TEXT,
			body TEXT NOT NULL,
			personalisation JSONB,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			engine TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, type, subject, body, personalisation, active, engine, version, created_at, updated_at
		FROM templates WHERE id = $1
	`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (s *PostgresStore) Set(ctx context.Context, t *Template) error {
	var personalisation []byte
	if t.Personalisation != nil {
		b, err := json.Marshal(t.Personalisation)
		if err != nil {
			return err
		}
		personalisation = b
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, description, type, subject, body, personalisation, active, engine, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			personalisation = EXCLUDED.personalisation,
			active = EXCLUDED.active,
			engine = EXCLUDED.engine,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
	`, t.ID, t.Name, nullable(t.Description), string(t.Type), nullable(t.Subject), t.Body,
		personalisation, t.Active, nullable(t.Engine), t.Version, t.CreatedAt, t.UpdatedAt)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]*Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, type, subject, body, personalisation, active, engine, version, created_at, updated_at
		FROM templates ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *PostgresStore) Has(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM templates WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*Template, error) {
	var t Template
	var description, subject, engine sql.NullString
	var personalisation []byte
	var typ string
	if err := row.Scan(&t.ID, &t.Name, &description, &typ, &subject, &t.Body,
		&personalisation, &t.Active, &engine, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Type = Channel(typ)
	t.Description = description.String
	t.Subject = subject.String
	t.Engine = engine.String
	if len(personalisation) > 0 {
		if err := json.Unmarshal(personalisation, &t.Personalisation); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
