package discord

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

var reMention = regexp.MustCompile(`^<@!?(\d+)>$`)

// parseSnowflake: los IDs de Discord son snowflakes numéricos; en la DB los
// guardamos como BIGINT.
func parseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// parseUserRef acepta un ID pelado o una mención <@123>.
func parseUserRef(raw string) (int64, error) {
	if m := reMention.FindStringSubmatch(raw); len(m) == 2 {
		return parseSnowflake(m[1])
	}
	if id, err := parseSnowflake(raw); err == nil {
		return id, nil
	}
	return 0, fmt.Errorf("referencia de usuario inválida: %q", raw)
}

// interactionUser: en guild viene en Member, por DM viene en User.
func interactionUser(ic *discordgo.InteractionCreate) *discordgo.User {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User
	}
	return ic.User
}

func messageDisplayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

func subcmdName(ic *discordgo.InteractionCreate) (string, bool) {
	opts := ic.ApplicationCommandData().Options
	if len(opts) == 0 || opts[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", false
	}
	return opts[0].Name, true
}

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue(), true
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name && so.Type == discordgo.ApplicationCommandOptionString {
					return so.StringValue(), true
				}
			}
		}
	}
	return "", false
}

func optBool(ic *discordgo.InteractionCreate, name string) (bool, bool) {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionBoolean {
			return o.BoolValue(), true
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name && so.Type == discordgo.ApplicationCommandOptionBoolean {
					return so.BoolValue(), true
				}
			}
		}
	}
	return false, false
}

func optInt(ic *discordgo.InteractionCreate, name string) (int, bool) {
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return int(o.IntValue()), true
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name && so.Type == discordgo.ApplicationCommandOptionInteger {
					return int(so.IntValue()), true
				}
			}
		}
	}
	return 0, false
}

// optUser: opción de tipo usuario (solo comandos de guild).
func optUser(ic *discordgo.InteractionCreate, name string) *discordgo.User {
	data := ic.ApplicationCommandData()
	if data.Resolved == nil {
		return nil
	}
	for _, o := range data.Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionUser {
			if id, ok := o.Value.(string); ok {
				if u, ok := data.Resolved.Users[id]; ok {
					return u
				}
			}
		}
	}
	return nil
}
