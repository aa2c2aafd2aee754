package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

// --- fakes compartidos por los tests del paquete ---

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[int64]storage.Member
	// máximo contador observado por usuario, para verificar que ningún
	// incremento se pierde aunque después haya resets
	maxSeen map[int64]int
	addErr  error
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{
		members: map[int64]storage.Member{},
		maxSeen: map[int64]int{},
	}
}

func (f *fakeMemberRepo) Touch(ctx context.Context, userID int64, username, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.members[userID]
	m.UserID = userID
	m.Username = username
	m.DisplayName = displayName
	m.LastActive = time.Now()
	f.members[userID] = m
	return nil
}

func (f *fakeMemberRepo) Get(ctx context.Context, userID int64) (storage.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[userID]
	if !ok {
		return storage.Member{}, storage.ErrNotFound
	}
	return m, nil
}

func (f *fakeMemberRepo) WarningCount(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[userID].WarningCount, nil
}

func (f *fakeMemberRepo) AddWarning(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return 0, f.addErr
	}
	m := f.members[userID]
	m.UserID = userID
	m.WarningCount++
	f.members[userID] = m
	if m.WarningCount > f.maxSeen[userID] {
		f.maxSeen[userID] = m.WarningCount
	}
	return m.WarningCount, nil
}

func (f *fakeMemberRepo) SetWarnings(ctx context.Context, userID int64, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 0 {
		n = 0
	}
	m := f.members[userID]
	m.UserID = userID
	m.WarningCount = n
	f.members[userID] = m
	return nil
}

func (f *fakeMemberRepo) ResetWarnings(ctx context.Context, userID int64) error {
	return f.SetWarnings(ctx, userID, 0)
}

func (f *fakeMemberRepo) TopWarned(ctx context.Context, limit int, exclude []int64) ([]storage.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	skip := map[int64]struct{}{}
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	var out []storage.Member
	for _, m := range f.members {
		if _, ok := skip[m.UserID]; ok || m.WarningCount == 0 {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarningCount > out[j].WarningCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeChat struct {
	mu      sync.Mutex
	deleted []string
	sent    []string
	banned  []int64

	delErr  error
	banErr  error
	banOnce bool // el primer ban sale bien, los siguientes fallan
}

func (f *fakeChat) DeleteMessage(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeChat) BanMember(guildID string, userID int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.banErr != nil {
		return f.banErr
	}
	if f.banOnce && len(f.banned) > 0 {
		return errors.New("unknown member")
	}
	f.banned = append(f.banned, userID)
	return nil
}

func (f *fakeChat) Send(channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeChat) sentContaining(sub string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sent {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func newTestModeration(t *testing.T, members *fakeMemberRepo, chat *fakeChat, admins AdminSet, words ...string) *ModerationService {
	t.Helper()
	cache := NewWordCache(&fakeWordRepo{words: words})
	if _, err := cache.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	policy := NewPolicyService(nil, "guild-1", 3) // snapshot default: max=3, links first
	return NewModerationService(members, chat, NewDetector(cache), policy, admins)
}

func testMsg(userID int64, content string) IncomingMessage {
	return IncomingMessage{
		GuildID:     "guild-1",
		ChannelID:   "chan-1",
		MessageID:   "msg-1",
		UserID:      userID,
		DisplayName: "Pepe",
		Content:     content,
	}
}

// --- tests ---

func TestModeration_FirstViolationWarns(t *testing.T) {
	members := newFakeMemberRepo()
	chat := &fakeChat{}
	svc := newTestModeration(t, members, chat, NewAdminSet(nil), "казино")

	out, err := svc.Moderate(context.Background(), testMsg(42, "сходим в казино"))
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if out.Outcome != OutcomeWarned {
		t.Fatalf("expected OutcomeWarned, got %v", out.Outcome)
	}
	if out.Reason != ReasonVocabulary {
		t.Errorf("expected reason %q, got %q", ReasonVocabulary, out.Reason)
	}
	if len(chat.deleted) != 1 || chat.deleted[0] != "msg-1" {
		t.Errorf("offending message not deleted: %v", chat.deleted)
	}
	if !chat.sentContaining("1/3") {
		t.Errorf("warning must show 1/3, sent=%v", chat.sent)
	}
	if n, _ := members.WarningCount(context.Background(), 42); n != 1 {
		t.Errorf("expected count 1, got %d", n)
	}
}

func TestModeration_LinkViolation(t *testing.T) {
	members := newFakeMemberRepo()
	chat := &fakeChat{}
	svc := newTestModeration(t, members, chat, NewAdminSet(nil))

	out, err := svc.Moderate(context.Background(), testMsg(42, "https://spam.example"))
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if out.Outcome != OutcomeWarned || out.Reason != ReasonLinks {
		t.Errorf("expected link warning, got outcome=%v reason=%q", out.Outcome, out.Reason)
	}
}

func TestModeration_AdminExempt(t *testing.T) {
	members := newFakeMemberRepo()
	chat := &fakeChat{}
	svc := newTestModeration(t, members, chat, NewAdminSet([]int64{42}), "казино")

	out, err := svc.Moderate(context.Background(), testMsg(42, "казино y https://spam.example"))
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if out.Outcome != OutcomeExempt {
		t.Fatalf("expected OutcomeExempt, got %v", out.Outcome)
	}
	// cero mutaciones: ni borrado, ni contador, ni mensajes
	if len(chat.deleted) != 0 || len(chat.sent) != 0 {
		t.Errorf("admin message produced side effects: %v %v", chat.deleted, chat.sent)
	}
	if n, _ := members.WarningCount(context.Background(), 42); n != 0 {
		t.Errorf("admin counter mutated: %d", n)
	}
}

func TestModeration_BoundaryBanAndReset(t *testing.T) {
	members := newFakeMemberRepo()
	chat := &fakeChat{}
	svc := newTestModeration(t, members, chat, NewAdminSet(nil), "казино")

	// a una advertencia del umbral
	_ = members.SetWarnings(context.Background(), 42, 2)

	out, err := svc.Moderate(context.Background(), testMsg(42, "казино"))
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if out.Outcome != OutcomeBanned {
		t.Fatalf("expected OutcomeBanned, got %v", out.Outcome)
	}
	if len(chat.banned) != 1 || chat.banned[0] != 42 {
		t.Errorf("expected ban of 42, got %v", chat.banned)
	}
	// ban confirmado → contador en 0
	if n, _ := members.WarningCount(context.Background(), 42); n != 0 {
		t.Errorf("expected counter reset to 0, got %d", n)
	}
	if !chat.sentContaining("expulsado") {
		t.Errorf("ban not announced, sent=%v", chat.sent)
	}
}

func TestModeration_BanFailureKeepsCounter(t *testing.T) {
	members := newFakeMemberRepo()
	chat := &fakeChat{banErr: errors.New("missing permissions")}
	svc := newTestModeration(t, members, chat, NewAdminSet(nil), "казино")

	_ = members.SetWarnings(context.Background(), 42, 2)

	out, err := svc.Moderate(context.Background(), testMsg(42, "казино"))
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if out.Outcome != OutcomeBanFailed {
		t.Fatalf("expected OutcomeBanFailed, got %v", out.Outcome)
	}
	// nunca reseteamos un ban que no salió
	if n, _ := members.WarningCount(context.Background(), 42); n != 3 {
		t.Errorf("expected counter preserved at 3, got %d", n)
	}
	if !chat.sentContaining("No pude expulsar") {
		t.Errorf("diagnostic not surfaced, sent=%v", chat.sent)
	}
}

func TestModeration_DeleteFailureDoesNotSuppressWarning(t *testing.T) {
	members := newFakeMemberRepo()
	chat := &fakeChat{delErr: errors.New("already deleted")}
	svc := newTestModeration(t, members, chat, NewAdminSet(nil), "казино")

	out, err := svc.Moderate(context.Background(), testMsg(42, "казино"))
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if out.Outcome != OutcomeWarned {
		t.Fatalf("expected OutcomeWarned, got %v", out.Outcome)
	}
	if !chat.sentContaining("1/3") {
		t.Errorf("warning suppressed by delete failure, sent=%v", chat.sent)
	}
}

func TestModeration_StoreFailureLeavesMessageUnsanctioned(t *testing.T) {
	members := newFakeMemberRepo()
	members.addErr = errors.New("timeout")
	chat := &fakeChat{}
	svc := newTestModeration(t, members, chat, NewAdminSet(nil), "казино")

	if _, err := svc.Moderate(context.Background(), testMsg(42, "казино")); err == nil {
		t.Fatal("expected error when increment fails")
	}
	if len(chat.sent) != 0 {
		t.Errorf("no sanction may be announced without an increment: %v", chat.sent)
	}
}

func TestModeration_ConcurrentViolationsNoLostUpdates(t *testing.T) {
	const n = 5 // > max (3)

	members := newFakeMemberRepo()
	chat := &fakeChat{banOnce: true}
	svc := newTestModeration(t, members, chat, NewAdminSet(nil), "казино")

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Moderate(context.Background(), testMsg(42, "казино"))
		}()
	}
	wg.Wait()

	members.mu.Lock()
	maxSeen := members.maxSeen[42]
	members.mu.Unlock()
	if maxSeen != n {
		t.Errorf("lost updates: max observed count = %d, want %d", maxSeen, n)
	}
	if len(chat.banned) != 1 {
		t.Errorf("expected exactly one successful ban, got %d", len(chat.banned))
	}
}
