package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type PolicyRepo struct {
	db *sql.DB
	// default para la fila creada en el primer Get (viene de MAX_WARNINGS)
	defaultMax int
}

func NewPolicyRepo(db *sql.DB, defaultMax int) *PolicyRepo {
	if defaultMax < 1 {
		defaultMax = 3
	}
	return &PolicyRepo{db: db, defaultMax: defaultMax}
}

func (r *PolicyRepo) Get(ctx context.Context, guildID string) (GuardPolicy, error) {
	var p GuardPolicy
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, max_warnings, links_first, welcome_enabled, created_at, updated_at
  FROM guard_policies
 WHERE guild_id = $1
`, guildID).Scan(
		&p.GuildID, &p.MaxWarnings, &p.LinksFirst, &p.WelcomeEnabled, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// crea default
		_, err := r.db.ExecContext(ctx, `
INSERT INTO guard_policies (guild_id, max_warnings) VALUES ($1, $2)
`, guildID, r.defaultMax)
		if err != nil {
			return GuardPolicy{}, err
		}
		return r.Get(ctx, guildID)
	}
	return p, err
}

func (r *PolicyRepo) Update(ctx context.Context, guildID string, u GuardPolicyUpdate) (GuardPolicy, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	i := 1

	if u.MaxWarnings != nil {
		sets = append(sets, fmt.Sprintf("max_warnings = $%d", i))
		args = append(args, *u.MaxWarnings)
		i++
	}
	if u.LinksFirst != nil {
		sets = append(sets, fmt.Sprintf("links_first = $%d", i))
		args = append(args, *u.LinksFirst)
		i++
	}
	if u.WelcomeEnabled != nil {
		sets = append(sets, fmt.Sprintf("welcome_enabled = $%d", i))
		args = append(args, *u.WelcomeEnabled)
		i++
	}
	if len(sets) == 0 {
		// nada que cambiar
		return r.Get(ctx, guildID)
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	i++

	args = append(args, guildID)

	_, err := r.db.ExecContext(ctx, `
UPDATE guard_policies
   SET `+strings.Join(sets, ", ")+`
 WHERE guild_id = $`+fmt.Sprint(i), args...)
	if err != nil {
		return GuardPolicy{}, err
	}
	return r.Get(ctx, guildID)
}
