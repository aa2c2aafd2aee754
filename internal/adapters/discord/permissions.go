package discord

import "github.com/bwmarrin/discordgo"

func (r *Router) isAdminUser(id string) bool {
	for _, a := range r.adminUserIDs {
		if a == id {
			return true
		}
	}
	return false
}

// requireAdminOrRoles: comandos de guild. Pasa si es admin del bot, owner
// del guild, tiene el bit Administrator o alguno de los roles configurados.
func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil || ic.Member.User == nil {
		ReplyEphemeral(s, ic, "🔒 Este comando es de guild.")
		return false
	}
	if r.isAdminUser(ic.Member.User.ID) {
		return true
	}

	// Owner
	if g, _ := s.State.Guild(ic.GuildID); g != nil && ic.Member.User.ID == g.OwnerID {
		return true
	}

	// Administrator bit
	roles, _ := s.GuildRoles(ic.GuildID)
	var perms int64
outer:
	for _, rid := range ic.Member.Roles {
		for _, ro := range roles {
			if ro.ID == rid {
				perms |= ro.Permissions
				if (perms & discordgo.PermissionAdministrator) != 0 {
					break outer
				}
			}
		}
	}
	if (perms & discordgo.PermissionAdministrator) != 0 {
		return true
	}

	// Roles explícitos del bot
	if len(r.adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(ic.Member.Roles))
		for _, rid := range ic.Member.Roles {
			has[rid] = struct{}{}
		}
		for _, want := range r.adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}

	ReplyEphemeral(s, ic, "🔒 No tienes permisos para esta acción.")
	return false
}

// requireProtectedAdmin: comandos sensibles. Exige identidad de admin Y
// contexto privado (DM), para que nadie dispare /addword o /reload en un
// canal público por accidente o coacción.
func (r *Router) requireProtectedAdmin(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.GuildID != "" {
		ReplyEphemeral(s, ic, "🔒 Este comando solo funciona por mensaje directo.")
		return false
	}
	u := interactionUser(ic)
	if u == nil || !r.isAdminUser(u.ID) {
		ReplyEphemeral(s, ic, "🔒 No tienes permisos para esta acción.")
		return false
	}
	return true
}
