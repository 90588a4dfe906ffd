package globalchat

import (
	"errors"
	"log"

	"globalchat-bot/bot"
	"globalchat-bot/globalchat"

	"github.com/bwmarrin/discordgo"
)

// HandleDirectMessage feeds a DM reply into the operator's management
// session. DMs from users without a session are ignored.
func HandleDirectMessage(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	if !b.Sessions.Active(m.Author.ID) {
		return
	}
	reply, _, err := b.Sessions.Advance(m.Author.ID, m.Content)
	if err != nil {
		if errors.Is(err, globalchat.ErrNoSession) {
			return
		}
		reply = "❌ " + err.Error()
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		log.Printf("Error replying to management session of %s: %v", m.Author.ID, err)
	}
}
