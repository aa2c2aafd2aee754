package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/xcg-guard-bot/internal/app/service"
	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

// custom_id de los botones RSVP: "event_rsvp:<eventID>:<status>"
const rsvpPrefix = "event_rsvp:"

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	u := interactionUser(ic)
	if u == nil {
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	if strings.HasPrefix(data.CustomID, rsvpPrefix) {
		if !r.rsvpLimiter.Allow(u.ID) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		parts := strings.Split(strings.TrimPrefix(data.CustomID, rsvpPrefix), ":")
		if len(parts) != 2 {
			ReplyEphemeral(s, ic, "⚠️ Botón inválido.")
			return
		}
		eventID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || !service.ValidRSVP(parts[1]) {
			ReplyEphemeral(s, ic, "⚠️ Botón inválido.")
			return
		}
		uid, err := parseSnowflake(u.ID)
		if err != nil {
			return
		}
		name := u.GlobalName
		if ic.Member != nil && ic.Member.Nick != "" {
			name = ic.Member.Nick
		}
		if name == "" {
			name = u.Username
		}
		msg, err := r.events.RSVP(ctx, eventID, uid, name, parts[1])
		if err != nil {
			msg = "⚠️ No pude registrar tu respuesta: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}

// publishEventMessage publica el anuncio del evento con los tres botones.
func (r *Router) publishEventMessage(channelID string, e storage.Event) (string, error) {
	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "¡Voy! ✅",
				Style:    discordgo.SuccessButton,
				CustomID: fmt.Sprintf("%s%d:%s", rsvpPrefix, e.ID, service.RSVPGoing),
			},
			discordgo.Button{
				Label:    "Lo pienso 🤔",
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("%s%d:%s", rsvpPrefix, e.ID, service.RSVPMaybe),
			},
			discordgo.Button{
				Label:    "No voy ❌",
				Style:    discordgo.DangerButton,
				CustomID: fmt.Sprintf("%s%d:%s", rsvpPrefix, e.ID, service.RSVPDeclined),
			},
		},
	}

	content := fmt.Sprintf("📅 **%s** (evento #%d). ¿Quién se anota?", e.Title, e.ID)
	if e.ScheduledAt != nil {
		content += fmt.Sprintf("\n🕒 <t:%d:F>", e.ScheduledAt.Unix())
	}

	msg, err := r.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: []discordgo.MessageComponent{row},
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}
