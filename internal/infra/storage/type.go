package storage

import "time"

type Member struct {
	UserID       int64
	Username     string
	DisplayName  string
	WarningCount int
	LastActive   time.Time
	JoinedAt     time.Time
}

type GuardPolicy struct {
	GuildID              string
	MaxWarnings          int
	LinksFirst           bool
	WelcomeEnabled       bool
	CreatedAt, UpdatedAt time.Time
}

// Para updates parciales desde /policy set
type GuardPolicyUpdate struct {
	MaxWarnings    *int
	LinksFirst     *bool
	WelcomeEnabled *bool
}

type Event struct {
	ID          int64
	GuildID     string
	Title       string
	CreatorID   int64
	Active      bool
	ScheduledAt *time.Time
	ChannelID   string
	MessageID   string
	CreatedAt   time.Time
}

type EventParticipant struct {
	EventID     int64
	UserID      int64
	DisplayName string
	Status      string // going | maybe | declined
	UpdatedAt   time.Time
}
