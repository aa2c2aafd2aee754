package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Actions implementa service.ChatActions sobre la sesión. Es la única
// frontera por la que el motor toca Discord: borrar, expulsar, avisar.
type Actions struct {
	s *discordgo.Session
}

func NewActions(s *discordgo.Session) *Actions { return &Actions{s: s} }

func (a *Actions) DeleteMessage(channelID, messageID string) error {
	return a.s.ChannelMessageDelete(channelID, messageID)
}

func (a *Actions) BanMember(guildID string, userID int64, reason string) error {
	// borra además el último día de mensajes del expulsado
	return a.s.GuildBanCreateWithReason(guildID, strconv.FormatInt(userID, 10), reason, 1)
}

func (a *Actions) Send(channelID, text string) error {
	_, err := a.s.ChannelMessageSend(channelID, text)
	return err
}
