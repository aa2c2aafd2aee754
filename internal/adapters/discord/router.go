package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/xcg-guard-bot/internal/app/service"
)

type Router struct {
	s       *discordgo.Session
	guildID string

	welcomeChannelID string

	moderation *service.ModerationService
	activity   *service.ActivityService
	admin      *service.AdminService
	policy     *service.PolicyService
	events     *service.EventService

	adminUserIDs []string
	adminRoleIDs []string
	rsvpLimiter  *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	welcomeChannelID string,
	moderation *service.ModerationService,
	activity *service.ActivityService,
	admin *service.AdminService,
	policy *service.PolicyService,
	events *service.EventService,
	adminUserIDs []string,
	adminRoleIDs []string,
) *Router {
	return &Router{
		s:                s,
		guildID:          guildID,
		welcomeChannelID: welcomeChannelID,
		moderation:       moderation,
		activity:         activity,
		admin:            admin,
		policy:           policy,
		events:           events,
		adminUserIDs:     adminUserIDs,
		adminRoleIDs:     adminRoleIDs,
		rsvpLimiter:      newUserLimiter(2 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range GuildCommands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	// los protegidos van globales para que funcionen por DM
	for _, cmd := range ProtectedCommands {
		if _, err := r.s.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(r.handleMessage)
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		}
	})
	r.s.AddHandler(r.handleMemberAdd)
}

// handleMessage: todo mensaje pasa por actividad (sin bloquear) y, si viene
// del guild vigilado, por moderación.
func (r *Router) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	uid, err := parseSnowflake(m.Author.ID)
	if err != nil {
		return
	}
	name := messageDisplayName(m)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.activity.Track(ctx, uid, m.Author.Username, name)
	}()

	if m.GuildID != r.guildID || m.Content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := r.moderation.Moderate(ctx, service.IncomingMessage{
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		UserID:      uid,
		DisplayName: name,
		Content:     m.Content,
	})
	if err != nil {
		log.Printf("moderation: msg=%s user=%s: %v", m.ID, m.Author.ID, err)
		return
	}
	switch out.Outcome {
	case service.OutcomeWarned:
		log.Printf("sanción: warn user=%s motivo=%q %d/%d", m.Author.ID, out.Reason, out.Count, out.Max)
	case service.OutcomeBanned:
		log.Printf("sanción: ban user=%s motivo=%q", m.Author.ID, out.Reason)
	case service.OutcomeBanFailed:
		log.Printf("sanción: ban FALLIDO user=%s motivo=%q count=%d", m.Author.ID, out.Reason, out.Count)
	}
}

// handleMemberAdd: bienvenida a los que entran (si la policy lo habilita).
func (r *Router) handleMemberAdd(s *discordgo.Session, ma *discordgo.GuildMemberAdd) {
	if ma.GuildID != r.guildID || ma.User == nil || ma.User.Bot {
		return
	}
	if r.welcomeChannelID == "" || !r.policy.Current().WelcomeEnabled {
		return
	}
	name := ma.User.GlobalName
	if name == "" {
		name = ma.User.Username
	}
	txt := fmt.Sprintf(
		"🎉 **¡Bienvenido/a, %s!**\n\nLeé las **reglas de la comunidad** antes de escribir: nada de links ni publicidad, y cuidamos el vocabulario.\n\n¡Que la pases bien!",
		name,
	)
	if _, err := s.ChannelMessageSend(r.welcomeChannelID, txt); err != nil {
		log.Printf("welcome: no pude saludar a %s: %v", ma.User.ID, err)
	}
}
