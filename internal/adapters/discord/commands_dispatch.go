// Despacho de slash commands: acá solo va interacción y permisos; la lógica
// vive en los servicios.
package discord

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/xcg-guard-bot/internal/app/service"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	u := interactionUser(ic)
	if u == nil {
		return
	}
	log.Printf("cmd: /%s by=%s guild=%q", cmd.Name, u.ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {

	case "ping":
		ReplyEphemeral(s, ic, "🏓 Pong!")

	//--> corrección manual del contador, en respuesta visible para el guild
	case "unwarn":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		target := optUser(ic, "miembro")
		if target == nil {
			ReplyEphemeral(s, ic, "⚠️ Indicá a qué miembro.")
			return
		}
		if target.Bot {
			ReplyEphemeral(s, ic, "❌ Los bots no tienen advertencias.")
			return
		}
		uid, err := parseSnowflake(target.ID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ ID inválido.")
			return
		}
		msg, err := r.admin.AdjustWarnings(ctx, uid, -1)
		if err != nil {
			msg = "⚠️ No pude ajustar el contador: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "event":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		r.handleEventCommand(ctx, s, ic)

	case "policy":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		sub, ok := subcmdName(ic)
		if !ok {
			ReplyEphemeral(s, ic, "Usa `/policy show` o `/policy set`.")
			return
		}
		switch sub {
		case "show":
			msg, err := r.policy.Show(ctx)
			if err != nil {
				msg = "⚠️ No pude leer la policy: " + err.Error()
			}
			ReplyEphemeral(s, ic, msg)
		case "set":
			var patch service.PolicyPatch
			if v, ok := optInt(ic, "max_warnings"); ok {
				patch.MaxWarnings = &v
			}
			if v, ok := optBool(ic, "links_first"); ok {
				patch.LinksFirst = &v
			}
			if v, ok := optBool(ic, "welcome_enabled"); ok {
				patch.WelcomeEnabled = &v
			}
			msg, err := r.policy.Update(ctx, patch)
			if err != nil {
				ReplyEphemeral(s, ic, "⚠️ No pude actualizar: "+err.Error())
				return
			}
			ReplyEphemeral(s, ic, msg)
		}

	//--> protegidos: admin Y por DM, nunca en un canal público
	case "reload":
		if !r.requireProtectedAdmin(s, ic) {
			return
		}
		msg, err := r.admin.Reload(ctx)
		if err != nil {
			msg = "⚠️ No pude recargar: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "addword":
		if !r.requireProtectedAdmin(s, ic) {
			return
		}
		w, _ := optStr(ic, "palabra")
		msg, err := r.admin.AddWord(ctx, w)
		if err != nil {
			msg = "⚠️ No pude guardar la palabra: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "delword":
		if !r.requireProtectedAdmin(s, ic) {
			return
		}
		w, _ := optStr(ic, "palabra")
		msg, err := r.admin.RemoveWord(ctx, w)
		if err != nil {
			msg = "⚠️ No pude borrar la palabra: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "warns":
		if !r.requireProtectedAdmin(s, ic) {
			return
		}
		raw, _ := optStr(ic, "usuario")
		uid, err := parseUserRef(raw)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Pasá un ID numérico o una mención.")
			return
		}
		msg, err := r.admin.Stats(ctx, uid)
		if err != nil {
			msg = "⚠️ No pude consultar: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "topwarns":
		if !r.requireProtectedAdmin(s, ic) {
			return
		}
		limit, _ := optInt(ic, "limite")
		msg, err := r.admin.TopWarned(ctx, limit)
		if err != nil {
			msg = "⚠️ No pude consultar: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}

func (r *Router) handleEventCommand(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	sub, ok := subcmdName(ic)
	if !ok {
		ReplyEphemeral(s, ic, "Usa `/event create`, `/event close` o `/event show`.")
		return
	}
	switch sub {
	case "create":
		title, _ := optStr(ic, "titulo")
		var when *time.Time
		if raw, ok := optStr(ic, "fecha"); ok && raw != "" {
			t, err := time.Parse("2006-01-02 15:04", raw)
			if err != nil {
				ReplyEphemeral(s, ic, "⚠️ Fecha inválida. Formato: `2026-09-01 21:00` (UTC).")
				return
			}
			when = &t
		}
		uid, err := parseSnowflake(interactionUser(ic).ID)
		if err != nil {
			return
		}
		e, err := r.events.Create(ctx, ic.GuildID, uid, title, when)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude crear el evento: "+err.Error())
			return
		}
		msgID, err := r.publishEventMessage(ic.ChannelID, e)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Evento creado pero no pude publicarlo: "+err.Error())
			return
		}
		if err := r.events.Attach(ctx, e.ID, ic.ChannelID, msgID); err != nil {
			log.Printf("event: no pude guardar ref del mensaje evento=%d: %v", e.ID, err)
		}
		ReplyEphemeral(s, ic, "✅ Evento publicado. Los botones registran a los anotados.")

	case "close":
		id, _ := optInt(ic, "id")
		msg, err := r.events.Close(ctx, int64(id))
		if err != nil {
			msg = "⚠️ No pude cerrar el evento: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "show":
		id, _ := optInt(ic, "id")
		msg, err := r.events.Show(ctx, int64(id))
		if err != nil {
			msg = "⚠️ No pude consultar el evento: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}
