package storage

import (
	"context"
	"database/sql"
)

type WordRepo struct{ db *sql.DB }

func NewWordRepo(db *sql.DB) *WordRepo { return &WordRepo{db: db} }

// List devuelve el set completo (ya normalizado en minúsculas al insertar).
func (r *WordRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT word FROM forbidden_words ORDER BY word
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *WordRepo) Insert(ctx context.Context, word string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO forbidden_words (word)
VALUES ($1)
ON CONFLICT (word) DO NOTHING
`, word)
	return err
}

func (r *WordRepo) Delete(ctx context.Context, word string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM forbidden_words WHERE word = $1
`, word)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
