package discord

import "github.com/bwmarrin/discordgo"

var dmAllowed = true

// GuildCommands se registran en el guild: moderación y eventos in-situ.
var GuildCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Chequeo de vida del bot",
	},
	{
		Name:        "unwarn",
		Description: "Quita una advertencia a un miembro (admins)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "miembro",
			Description: "A quién se la quitamos",
			Required:    true,
		}},
	},
	{
		Name:        "event",
		Description: "Eventos de la comunidad (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Publica un evento con botones para anotarse",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "titulo", Description: "Nombre del evento", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "fecha", Description: "Opcional: YYYY-MM-DD HH:MM (UTC)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "close",
				Description: "Cierra un evento (no borra el historial)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Número de evento", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Lista los anotados de un evento",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Número de evento", Required: true},
				},
			},
		},
	},
	{
		Name:        "policy",
		Description: "Ver o cambiar las reglas de moderación (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Ver configuración"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Actualizar configuración (sólo lo que pases)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_warnings", Description: "Advertencias antes del ban (≥1)"},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "links_first", Description: "Chequear links antes que vocabulario"},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "welcome_enabled", Description: "Saludar a los que entran"},
				},
			},
		},
	},
}

// ProtectedCommands se registran globales para poder usarse por DM: son los
// comandos sensibles (rule set y consultas) y SOLO responden a admins en
// privado, nunca en un canal público.
var ProtectedCommands = []*discordgo.ApplicationCommand{
	{
		Name:         "reload",
		Description:  "Recarga el cache de palabras prohibidas",
		DMPermission: &dmAllowed,
	},
	{
		Name:         "addword",
		Description:  "Agrega una palabra prohibida",
		DMPermission: &dmAllowed,
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "palabra",
			Description: "Se guarda en minúsculas",
			Required:    true,
		}},
	},
	{
		Name:         "delword",
		Description:  "Borra una palabra prohibida",
		DMPermission: &dmAllowed,
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "palabra",
			Description: "La que queremos sacar",
			Required:    true,
		}},
	},
	{
		Name:         "warns",
		Description:  "Estado de moderación de un usuario",
		DMPermission: &dmAllowed,
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "usuario",
			Description: "ID o mención",
			Required:    true,
		}},
	},
	{
		Name:         "topwarns",
		Description:  "Miembros con más advertencias",
		DMPermission: &dmAllowed,
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limite",
			Description: "Cuántos mostrar (default 5)",
		}},
	},
}
