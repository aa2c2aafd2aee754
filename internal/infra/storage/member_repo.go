package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"
)

type MemberRepo struct{ db *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

var ErrNotFound = errors.New("not found")

// Touch: upsert de actividad. Crea al miembro si no existe y refresca
// username/display_name/last_active. No toca warning_count.
func (r *MemberRepo) Touch(ctx context.Context, userID int64, username, displayName string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO members (user_id, username, display_name, last_active)
VALUES ($1, NULLIF($2,''), $3, now())
ON CONFLICT (user_id) DO UPDATE SET
  username     = COALESCE(NULLIF(EXCLUDED.username,''), members.username),
  display_name = EXCLUDED.display_name,
  last_active  = now()
`, userID, username, displayName)
	return err
}

func (r *MemberRepo) Get(ctx context.Context, userID int64) (Member, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_id, COALESCE(username,''), display_name, warning_count, last_active, joined_at
  FROM members
 WHERE user_id = $1
`, userID)
	var m Member
	err := row.Scan(&m.UserID, &m.Username, &m.DisplayName, &m.WarningCount, &m.LastActive, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return Member{}, ErrNotFound
	}
	return m, err
}

func (r *MemberRepo) WarningCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT warning_count FROM members WHERE user_id = $1
`, userID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// AddWarning: incremento atómico en una sola sentencia. Devuelve el contador
// YA incrementado. Nunca hacer esto como read + write separados: dos
// violaciones concurrentes del mismo usuario perderían un incremento.
func (r *MemberRepo) AddWarning(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
INSERT INTO members (user_id, warning_count)
VALUES ($1, 1)
ON CONFLICT (user_id) DO UPDATE SET
  warning_count = members.warning_count + 1
RETURNING warning_count
`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("add warning user=%d: %w", userID, err)
	}
	return n, nil
}

func (r *MemberRepo) SetWarnings(ctx context.Context, userID int64, n int) error {
	if n < 0 {
		n = 0
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO members (user_id, warning_count)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET
  warning_count = EXCLUDED.warning_count
`, userID, n)
	return err
}

func (r *MemberRepo) ResetWarnings(ctx context.Context, userID int64) error {
	return r.SetWarnings(ctx, userID, 0)
}

// TopWarned: miembros con más advertencias, excluyendo ids (admins).
func (r *MemberRepo) TopWarned(ctx context.Context, limit int, exclude []int64) ([]Member, error) {
	if limit <= 0 {
		limit = 10
	}
	if exclude == nil {
		exclude = []int64{}
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, COALESCE(username,''), display_name, warning_count, last_active, joined_at
  FROM members
 WHERE warning_count > 0
   AND user_id <> ALL($1)
 ORDER BY warning_count DESC, last_active DESC
 LIMIT $2
`, pq.Array(exclude), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Username, &m.DisplayName, &m.WarningCount, &m.LastActive, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
