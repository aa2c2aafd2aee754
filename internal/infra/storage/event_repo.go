package storage

import (
	"context"
	"database/sql"
	"time"
)

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Create(ctx context.Context, guildID, title string, creatorID int64, scheduledAt *time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO events (guild_id, title, creator_id, scheduled_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, guildID, title, creatorID, scheduledAt).Scan(&id)
	return id, err
}

func (r *EventRepo) Get(ctx context.Context, id int64) (Event, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, guild_id, title, creator_id, active, scheduled_at, channel_id, message_id, created_at
  FROM events
 WHERE id = $1
`, id)
	var e Event
	err := row.Scan(&e.ID, &e.GuildID, &e.Title, &e.CreatorID, &e.Active, &e.ScheduledAt, &e.ChannelID, &e.MessageID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return Event{}, ErrNotFound
	}
	return e, err
}

// SetMessageRef guarda dónde quedó publicado el mensaje RSVP del evento.
func (r *EventRepo) SetMessageRef(ctx context.Context, id int64, channelID, messageID string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE events
   SET channel_id = $2, message_id = $3
 WHERE id = $1
`, id, channelID, messageID)
	return err
}

// Close desactiva el evento. Nunca borramos filas: el historial queda.
func (r *EventRepo) Close(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE events SET active = FALSE WHERE id = $1 AND active
`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetParticipant: upsert con unicidad (event_id, user_id); un click nuevo
// del mismo usuario solo cambia su estado.
func (r *EventRepo) SetParticipant(ctx context.Context, eventID, userID int64, displayName, status string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO event_participants (event_id, user_id, display_name, status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (event_id, user_id) DO UPDATE SET
  display_name = EXCLUDED.display_name,
  status       = EXCLUDED.status,
  updated_at   = now()
`, eventID, userID, displayName, status)
	return err
}

func (r *EventRepo) Participants(ctx context.Context, eventID int64) ([]EventParticipant, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT event_id, user_id, display_name, status, updated_at
  FROM event_participants
 WHERE event_id = $1
 ORDER BY updated_at ASC
`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventParticipant
	for rows.Next() {
		var p EventParticipant
		if err := rows.Scan(&p.EventID, &p.UserID, &p.DisplayName, &p.Status, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
