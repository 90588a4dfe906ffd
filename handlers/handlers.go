package handlers

import (
	"log"
	"strings"

	"globalchat-bot/bot"
	gcHandlers "globalchat-bot/handlers/globalchat"
	"globalchat-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"global-chat": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			gcHandlers.HandleGlobalChatCommand(s, i, b)
		},
		"global-chat-mod": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			gcHandlers.HandleModCommand(s, i, b)
		},
		"global-chat-admin": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			GuildAdminHandler(s, i, b)
		},
		"global-chat-status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
				h(s, i)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID
			if strings.HasPrefix(customID, "gc_confirm_delete:") || strings.HasPrefix(customID, "gc_cancel_delete:") {
				gcHandlers.HandleDeleteConfirmation(s, i, b)
			}
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		HandleMessageCreate(s, m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		HandleReactionAdd(s, r, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageDelete) {
		HandleMessageDelete(s, m, b)
	})
}

// logModeration reports a moderation-flavoured event to the configured
// log webhook, best effort.
func logModeration(b *bot.Bot, operation, detail string) {
	if err := utils.LogInfo(b.GetConfig().LogWebhookURL, "GlobalChat", operation, detail); err != nil {
		log.Printf("Failed to send %s log: %v", operation, err)
	}
}
