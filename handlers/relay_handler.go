package handlers

import (
	"fmt"

	"globalchat-bot/bot"
	"globalchat-bot/globalchat"
	gcHandlers "globalchat-bot/handlers/globalchat"

	"github.com/bwmarrin/discordgo"
)

// HandleMessageCreate is the boundary listener for inbound messages.
// Guild messages feed the relay engine; direct messages advance the
// operator's management session.
func HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	// Webhook and bot messages are never relayed; the engine's own
	// copies arrive as webhook messages, so this also stops echo loops.
	if m.Author.Bot || m.WebhookID != "" {
		return
	}

	if m.GuildID == "" {
		gcHandlers.HandleDirectMessage(s, m, b)
		return
	}

	msg := globalchat.InboundMessage{
		SourceCommunityID: m.GuildID,
		SourceChannelID:   m.ChannelID,
		MessageID:         m.ID,
		AuthorID:          m.Author.ID,
		DisplayName:       displayName(m),
		Username:          m.Author.Username,
		GlobalName:        m.Author.GlobalName,
		AvatarURL:         m.Author.AvatarURL("128"),
		Pronouns:          pronounLabels(s, m),
		Content:           m.Content,
	}
	for _, a := range m.Attachments {
		msg.AttachmentURLs = append(msg.AttachmentURLs, a.URL)
	}
	if ref := m.ReferencedMessage; ref != nil && ref.Author != nil {
		msg.ReplyAuthor = ref.Author.Username
		msg.ReplyContent = ref.Content
	}
	b.Engine.RelayMessage(msg)
}

// HandleReactionAdd propagates reactions on tracked messages to every
// sibling copy.
func HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd, b *bot.Bot) {
	if r.UserID == s.State.User.ID {
		return
	}
	b.Engine.RelayReaction(r.MessageID, r.ChannelID, r.Emoji.APIName())
}

// HandleMessageDelete mirrors a deletion of any tracked message to all
// of its siblings. Deletions the engine issued itself are recognised
// through the delete-pending set and ignored, otherwise the bot's own
// fan-out deletions would re-trigger this handler forever.
func HandleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete, b *bot.Bot) {
	if b.Engine.IsDeletePending(m.ID) {
		return
	}
	if !b.Engine.IsTrackedMessage(m.ID) {
		return
	}
	ids := b.Engine.DeleteRelayedMessages(m.ID, m.ChannelID)
	logModeration(b, "MessageDelete", fmt.Sprintf("Mirrored a deletion in channel %s to %d message(s).", m.ChannelID, len(ids)))
}

func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// pronounLabels collects pronoun role names the member carries, if the
// guild uses pronoun roles.
func pronounLabels(s *discordgo.Session, m *discordgo.MessageCreate) []string {
	if m.Member == nil || len(m.Member.Roles) == 0 {
		return nil
	}
	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		return nil
	}
	var labels []string
	for _, roleID := range m.Member.Roles {
		for _, role := range guild.Roles {
			if role.ID != roleID {
				continue
			}
			switch role.Name {
			case "he/him", "she/her", "they/them", "any pronouns", "ask pronouns":
				labels = append(labels, role.Name)
			}
		}
	}
	return labels
}
