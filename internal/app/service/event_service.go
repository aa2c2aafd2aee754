package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

// Estados RSVP válidos (clave del botón → etiqueta visible).
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPDeclined = "declined"
)

var rsvpLabels = map[string]string{
	RSVPGoing:    "¡Voy! ✅",
	RSVPMaybe:    "Lo pienso 🤔",
	RSVPDeclined: "No voy ❌",
}

func ValidRSVP(status string) bool {
	_, ok := rsvpLabels[status]
	return ok
}

// EventService: eventos de la comunidad con lista de anotados. Los eventos
// se cierran, nunca se borran.
type EventService struct {
	events EventRepo
}

func NewEventService(events EventRepo) *EventService {
	return &EventService{events: events}
}

func (s *EventService) Create(ctx context.Context, guildID string, creatorID int64, title string, when *time.Time) (storage.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return storage.Event{}, fmt.Errorf("el título no puede estar vacío")
	}
	id, err := s.events.Create(ctx, guildID, title, creatorID, when)
	if err != nil {
		return storage.Event{}, err
	}
	return s.events.Get(ctx, id)
}

// Attach guarda la referencia al mensaje RSVP publicado en el canal.
func (s *EventService) Attach(ctx context.Context, eventID int64, channelID, messageID string) error {
	return s.events.SetMessageRef(ctx, eventID, channelID, messageID)
}

func (s *EventService) RSVP(ctx context.Context, eventID, userID int64, displayName, status string) (string, error) {
	if !ValidRSVP(status) {
		return "⚠️ Respuesta inválida.", nil
	}
	e, err := s.events.Get(ctx, eventID)
	if err == storage.ErrNotFound {
		return "ℹ️ Ese evento ya no existe.", nil
	}
	if err != nil {
		return "", err
	}
	if !e.Active {
		return "ℹ️ El evento ya está cerrado.", nil
	}
	if displayName == "" {
		displayName = fmt.Sprintf("User_%d", userID)
	}
	if err := s.events.SetParticipant(ctx, eventID, userID, displayName, status); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Anotado para **%s**: %s", e.Title, rsvpLabels[status]), nil
}

func (s *EventService) Close(ctx context.Context, eventID int64) (string, error) {
	ok, err := s.events.Close(ctx, eventID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "ℹ️ Ese evento no existe o ya estaba cerrado.", nil
	}
	return fmt.Sprintf("✅ Evento #%d cerrado.", eventID), nil
}

func (s *EventService) Show(ctx context.Context, eventID int64) (string, error) {
	e, err := s.events.Get(ctx, eventID)
	if err == storage.ErrNotFound {
		return "ℹ️ Ese evento no existe.", nil
	}
	if err != nil {
		return "", err
	}
	ps, err := s.events.Participants(ctx, eventID)
	if err != nil {
		return "", err
	}

	state := "abierto"
	if !e.Active {
		state = "cerrado"
	}
	out := fmt.Sprintf("📅 **%s** (evento #%d, %s)\n", e.Title, e.ID, state)
	if e.ScheduledAt != nil {
		out += fmt.Sprintf("🕒 <t:%d:F>\n", e.ScheduledAt.Unix())
	}
	if len(ps) == 0 {
		return out + "ℹ️ Nadie se anotó todavía.", nil
	}
	byStatus := map[string][]string{}
	for _, p := range ps {
		byStatus[p.Status] = append(byStatus[p.Status], p.DisplayName)
	}
	for _, st := range []string{RSVPGoing, RSVPMaybe, RSVPDeclined} {
		names := byStatus[st]
		if len(names) == 0 {
			continue
		}
		out += fmt.Sprintf("%s (%d): %s\n", rsvpLabels[st], len(names), strings.Join(names, ", "))
	}
	return out, nil
}
