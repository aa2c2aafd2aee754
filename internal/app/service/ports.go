package service

import (
	"context"
	"time"

	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

// Lo implementa internal/infra/storage.MemberRepo
type MemberRepo interface {
	Touch(ctx context.Context, userID int64, username, displayName string) error
	Get(ctx context.Context, userID int64) (storage.Member, error)
	WarningCount(ctx context.Context, userID int64) (int, error)
	// AddWarning es incremento-y-retorno atómico en el store. Es EL contrato
	// de concurrencia del bot: nunca reemplazar por read + write.
	AddWarning(ctx context.Context, userID int64) (int, error)
	SetWarnings(ctx context.Context, userID int64, n int) error
	ResetWarnings(ctx context.Context, userID int64) error
	TopWarned(ctx context.Context, limit int, exclude []int64) ([]storage.Member, error)
}

// Lo implementa internal/infra/storage.WordRepo
type WordRepo interface {
	List(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, word string) error
	Delete(ctx context.Context, word string) (bool, error)
}

// Lo implementa internal/infra/storage.PolicyRepo
type PolicyRepo interface {
	Get(ctx context.Context, guildID string) (storage.GuardPolicy, error)
	Update(ctx context.Context, guildID string, u storage.GuardPolicyUpdate) (storage.GuardPolicy, error)
}

// Lo implementa internal/infra/storage.EventRepo
type EventRepo interface {
	Create(ctx context.Context, guildID, title string, creatorID int64, scheduledAt *time.Time) (int64, error)
	Get(ctx context.Context, id int64) (storage.Event, error)
	SetMessageRef(ctx context.Context, id int64, channelID, messageID string) error
	Close(ctx context.Context, id int64) (bool, error)
	SetParticipant(ctx context.Context, eventID, userID int64, displayName, status string) error
	Participants(ctx context.Context, eventID int64) ([]storage.EventParticipant, error)
}

// Lo implementa internal/adapters/discord.Actions
type ChatActions interface {
	DeleteMessage(channelID, messageID string) error
	BanMember(guildID string, userID int64, reason string) error
	Send(channelID, text string) error
}
