package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

// PolicyService mantiene la policy del guild cacheada en memoria: se lee en
// cada mensaje y no vamos a ir a la DB por eso. Refresh corre al arranque,
// tras cada /policy set y en un ticker.
type PolicyService struct {
	repo    PolicyRepo
	guildID string

	mu  sync.RWMutex
	cur storage.GuardPolicy
}

func NewPolicyService(repo PolicyRepo, guildID string, defaultMax int) *PolicyService {
	if defaultMax < 1 {
		defaultMax = 3
	}
	return &PolicyService{
		repo:    repo,
		guildID: guildID,
		cur: storage.GuardPolicy{
			GuildID:        guildID,
			MaxWarnings:    defaultMax,
			LinksFirst:     true,
			WelcomeEnabled: true,
		},
	}
}

func (s *PolicyService) Refresh(ctx context.Context) error {
	p, err := s.repo.Get(ctx, s.guildID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = p
	s.mu.Unlock()
	return nil
}

func (s *PolicyService) Current() storage.GuardPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

type PolicyPatch struct {
	MaxWarnings    *int
	LinksFirst     *bool
	WelcomeEnabled *bool
}

func (s *PolicyService) Show(ctx context.Context) (string, error) {
	p, err := s.repo.Get(ctx, s.guildID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"**Policy de moderación**\n• max_warnings: **%d**\n• links_first: **%v**\n• welcome_enabled: **%v**",
		p.MaxWarnings, p.LinksFirst, p.WelcomeEnabled,
	), nil
}

func (s *PolicyService) Update(ctx context.Context, patch PolicyPatch) (string, error) {
	if patch.MaxWarnings != nil && *patch.MaxWarnings < 1 {
		return "⚠️ max_warnings debe ser al menos 1.", nil
	}
	p, err := s.repo.Update(ctx, s.guildID, storage.GuardPolicyUpdate{
		MaxWarnings:    patch.MaxWarnings,
		LinksFirst:     patch.LinksFirst,
		WelcomeEnabled: patch.WelcomeEnabled,
	})
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.cur = p
	s.mu.Unlock()
	return s.Show(ctx)
}
