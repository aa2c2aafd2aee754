package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]storage.Event
	// (eventID, userID) → participante; replica el unique del schema
	parts map[[2]int64]storage.EventParticipant
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		nextID: 1,
		events: map[int64]storage.Event{},
		parts:  map[[2]int64]storage.EventParticipant{},
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, guildID, title string, creatorID int64, scheduledAt *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.events[id] = storage.Event{
		ID:          id,
		GuildID:     guildID,
		Title:       title,
		CreatorID:   creatorID,
		ScheduledAt: scheduledAt,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	return id, nil
}

func (f *fakeEventRepo) Get(ctx context.Context, id int64) (storage.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return storage.Event{}, storage.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) SetMessageRef(ctx context.Context, id int64, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return storage.ErrNotFound
	}
	e.ChannelID = channelID
	e.MessageID = messageID
	f.events[id] = e
	return nil
}

func (f *fakeEventRepo) Close(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok || !e.Active {
		return false, nil
	}
	e.Active = false
	f.events[id] = e
	return true, nil
}

func (f *fakeEventRepo) SetParticipant(ctx context.Context, eventID, userID int64, displayName, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parts[[2]int64{eventID, userID}] = storage.EventParticipant{
		EventID:     eventID,
		UserID:      userID,
		DisplayName: displayName,
		Status:      status,
	}
	return nil
}

func (f *fakeEventRepo) Participants(ctx context.Context, eventID int64) ([]storage.EventParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.EventParticipant
	for k, p := range f.parts {
		if k[0] == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestEvent_CreateAndRSVP(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)

	e, err := svc.Create(context.Background(), "guild-1", 7, "Torneo 2v2", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	msg, err := svc.RSVP(context.Background(), e.ID, 42, "Pepe", RSVPGoing)
	if err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	if !strings.Contains(msg, "Torneo 2v2") {
		t.Errorf("confirmation should name the event, got %q", msg)
	}

	// cambiar de opinión reemplaza la respuesta, no la duplica
	if _, err := svc.RSVP(context.Background(), e.ID, 42, "Pepe", RSVPDeclined); err != nil {
		t.Fatalf("rsvp change: %v", err)
	}
	ps, _ := repo.Participants(context.Background(), e.ID)
	if len(ps) != 1 || ps[0].Status != RSVPDeclined {
		t.Errorf("expected single participant with declined, got %+v", ps)
	}
}

func TestEvent_EmptyTitleRejected(t *testing.T) {
	svc := NewEventService(newFakeEventRepo())
	if _, err := svc.Create(context.Background(), "guild-1", 7, "   ", nil); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestEvent_RSVPOnClosedEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)

	e, err := svc.Create(context.Background(), "guild-1", 7, "Scrim", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Close(context.Background(), e.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	msg, err := svc.RSVP(context.Background(), e.ID, 42, "Pepe", RSVPGoing)
	if err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	if !strings.Contains(msg, "cerrado") {
		t.Errorf("expected closed notice, got %q", msg)
	}
	if ps, _ := repo.Participants(context.Background(), e.ID); len(ps) != 0 {
		t.Errorf("closed event accepted participants: %+v", ps)
	}
}

func TestEvent_InvalidStatus(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)

	e, _ := svc.Create(context.Background(), "guild-1", 7, "Scrim", nil)

	msg, err := svc.RSVP(context.Background(), e.ID, 42, "Pepe", "definitely")
	if err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	if !strings.Contains(msg, "inválida") {
		t.Errorf("expected invalid notice, got %q", msg)
	}
}

func TestEvent_CloseTwice(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)

	e, _ := svc.Create(context.Background(), "guild-1", 7, "Scrim", nil)

	if _, err := svc.Close(context.Background(), e.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	msg, err := svc.Close(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !strings.Contains(msg, "ya estaba cerrado") {
		t.Errorf("expected already-closed notice, got %q", msg)
	}
}

func TestEvent_ShowGroupsByStatus(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo)

	when := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	e, _ := svc.Create(context.Background(), "guild-1", 7, "Final", &when)

	_, _ = svc.RSVP(context.Background(), e.ID, 1, "Ana", RSVPGoing)
	_, _ = svc.RSVP(context.Background(), e.ID, 2, "Beto", RSVPGoing)
	_, _ = svc.RSVP(context.Background(), e.ID, 3, "", RSVPMaybe)

	out, err := svc.Show(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Ana") || !strings.Contains(out, "Beto") {
		t.Errorf("going list incomplete: %q", out)
	}
	// sin display name → placeholder estable
	if !strings.Contains(out, "User_3") {
		t.Errorf("expected User_3 fallback, got %q", out)
	}
}
