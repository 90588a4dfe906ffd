package globalchat

import (
	"globalchat-bot/bot"
	"globalchat-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleModCommand routes /global-chat-mod. Moderation actions run as
// DM wizards so the operator can supply the target, duration and
// reason step by step.
func HandleModCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub := i.ApplicationCommandData().Options[0]
	opts := optionMap(sub.Options)
	userID := interactionUserID(i)

	// Guilds decide who may run moderation from their server; channel
	// tiers are checked again by the engine. In a DM there is no guild
	// to consult.
	if i.Member != nil && !utils.HasPermission(b, i.GuildID, userID, i.Member.Roles, utils.NodeModerate) {
		utils.SendErrorResponse(s, i, "You do not have permission to use global chat moderation on this server.")
		return
	}

	switch sub.Name {
	case "action":
		channelID := stringOpt(opts, "channel_id")
		action := stringOpt(opts, "action")
		prompt, err := b.Sessions.Start(userID, channelID, action)
		if err != nil {
			utils.SendErrorResponse(s, i, err.Error())
			return
		}
		if err := utils.SendPrivateMessage(s, userID, prompt); err != nil {
			utils.SendErrorResponse(s, i, "I could not DM you. Enable direct messages and try again.")
			b.Sessions.Cancel(userID)
			return
		}
		utils.SendSimpleResponse(s, i, "Check your DMs — the moderation wizard has started.")
	case "warnings":
		handleWarnings(s, i, b, opts, userID)
	}
}

func handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, userID string) {
	ch, ok := b.Engine.Registry().Get(stringOpt(opts, "channel_id"))
	if !ok {
		utils.SendErrorResponse(s, i, "global channel not found")
		return
	}
	if !ch.HasModerateAccess(userID) {
		utils.SendErrorResponse(s, i, "you do not have access to perform this action")
		return
	}
	utils.SendEmbedResponse(s, i, warningsEmbed(ch, stringOpt(opts, "server_id")))
}
