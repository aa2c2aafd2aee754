package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

// AdminService: operaciones administrativas sobre el rule set y los
// contadores. Devuelven resúmenes listos para relayear al operador.
type AdminService struct {
	words   WordRepo
	members MemberRepo
	cache   *WordCache
	admins  AdminSet
}

func NewAdminService(words WordRepo, members MemberRepo, cache *WordCache, admins AdminSet) *AdminService {
	return &AdminService{words: words, members: members, cache: cache, admins: admins}
}

func (s *AdminService) Reload(ctx context.Context) (string, error) {
	n, err := s.cache.Reload(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Lista de palabras prohibidas recargada. Total: %d", n), nil
}

func (s *AdminService) AddWord(ctx context.Context, raw string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(raw))
	if w == "" {
		return "⚠️ La palabra no puede estar vacía.", nil
	}
	if err := s.words.Insert(ctx, w); err != nil {
		// la DB no cambió → el cache tampoco se toca
		return "", err
	}
	n, err := s.cache.Reload(ctx)
	if err != nil {
		log.Printf("admin: «%s» guardada pero el reload falló: %v", w, err)
		return fmt.Sprintf("✅ Palabra «%s» guardada, pero el cache no se pudo recargar. Probá /reload.", w), nil
	}
	return fmt.Sprintf("✅ Palabra «%s» agregada. Total en cache: %d", w, n), nil
}

func (s *AdminService) RemoveWord(ctx context.Context, raw string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(raw))
	if w == "" {
		return "⚠️ La palabra no puede estar vacía.", nil
	}
	ok, err := s.words.Delete(ctx, w)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("ℹ️ «%s» no estaba en la lista.", w), nil
	}
	n, err := s.cache.Reload(ctx)
	if err != nil {
		log.Printf("admin: «%s» borrada pero el reload falló: %v", w, err)
		return fmt.Sprintf("✅ Palabra «%s» borrada, pero el cache no se pudo recargar. Probá /reload.", w), nil
	}
	return fmt.Sprintf("✅ Palabra «%s» borrada. Total en cache: %d", w, n), nil
}

// AdjustWarnings: corrección manual del contador (p.ej. /unwarn = delta -1).
// Clampa en 0: el contador nunca queda negativo.
func (s *AdminService) AdjustWarnings(ctx context.Context, userID int64, delta int) (string, error) {
	if s.admins.Contains(userID) {
		return "❌ Los administradores no tienen contador de advertencias.", nil
	}
	cur := 0
	m, err := s.members.Get(ctx, userID)
	if err != nil && err != storage.ErrNotFound {
		return "", err
	}
	if err == nil {
		cur = m.WarningCount
	}
	n := cur + delta
	if n < 0 {
		n = 0
	}
	if err := s.members.SetWarnings(ctx, userID, n); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Advertencias de <@%d>: **%d**.", userID, n), nil
}

func (s *AdminService) Stats(ctx context.Context, userID int64) (string, error) {
	m, err := s.members.Get(ctx, userID)
	if err == storage.ErrNotFound {
		return fmt.Sprintf("ℹ️ Sin registro para <@%d>.", userID), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"**%s** (<@%d>)\n• advertencias: **%d**\n• última actividad: <t:%d:R>\n• visto por primera vez: <t:%d:R>",
		m.DisplayName, m.UserID, m.WarningCount, m.LastActive.Unix(), m.JoinedAt.Unix(),
	), nil
}

func (s *AdminService) TopWarned(ctx context.Context, limit int) (string, error) {
	if limit <= 0 {
		limit = 5
	}
	ms, err := s.members.TopWarned(ctx, limit, s.admins.IDs())
	if err != nil {
		return "", err
	}
	if len(ms) == 0 {
		return "ℹ️ Nadie tiene advertencias. 🎉", nil
	}
	out := "📋 **Miembros con más advertencias**\n"
	for i, m := range ms {
		out += fmt.Sprintf("%d) **%s** — %d\n", i+1, m.DisplayName, m.WarningCount)
	}
	return out, nil
}
