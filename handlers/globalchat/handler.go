package globalchat

import (
	"fmt"
	"log"
	"strings"

	"globalchat-bot/bot"
	"globalchat-bot/globalchat"
	"globalchat-bot/model"
	"globalchat-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleGlobalChatCommand routes the /global-chat subcommands.
func HandleGlobalChatCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub := i.ApplicationCommandData().Options[0]
	opts := optionMap(sub.Options)
	userID := interactionUserID(i)

	switch sub.Name {
	case "create":
		handleCreate(s, i, b, opts, userID)
	case "delete":
		handleDelete(s, i, b, opts, userID)
	case "edit":
		handleEdit(s, i, b, opts, userID)
	case "join":
		handleJoin(s, i, b, opts, userID)
	case "leave":
		handleLeave(s, i, b, userID)
	case "info":
		handleInfo(s, i, b)
	case "list":
		handleList(s, i, b, userID)
	case "set-rules":
		handleSetRules(s, i, b, opts, userID)
	case "add-co-owner":
		if err := b.Engine.AddCoOwner(stringOpt(opts, "channel_id"), userID, userOptID(opts, "user")); err != nil {
			utils.SendErrorResponse(s, i, err.Error())
			return
		}
		utils.SendSimpleResponse(s, i, "Co-owner added.")
	case "add-moderator":
		if err := b.Engine.AddModerator(stringOpt(opts, "channel_id"), userID, userOptID(opts, "user")); err != nil {
			utils.SendErrorResponse(s, i, err.Error())
			return
		}
		utils.SendSimpleResponse(s, i, "Moderator added.")
	}
}

func handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, userID string) {
	params := globalchat.CreateParams{
		Name:        stringOpt(opts, "name"),
		Description: stringOpt(opts, "description"),
		Visibility:  stringOpt(opts, "visibility"),
		OwnerID:     userID,
	}
	if key := stringOpt(opts, "key"); key != "" {
		params.KeyRequired = true
		params.Key = key
	}
	if _, ok := opts["prefix"]; ok {
		params.Prefix = model.OptionalText{Set: true, Value: stringOpt(opts, "prefix")}
	}
	if _, ok := opts["suffix"]; ok {
		params.Suffix = model.OptionalText{Set: true, Value: stringOpt(opts, "suffix")}
	}

	ch, err := b.Engine.Registry().Create(params)
	if err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	if err := utils.SendPrivateEmbedMessage(s, userID, channelInfoEmbed(ch)); err != nil {
		log.Printf("Creation acknowledgement DM to %s failed: %v", userID, err)
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("Global channel **%s** created with id `%s`.", ch.Name, ch.ID))
}

func handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, userID string) {
	channelID := stringOpt(opts, "channel_id")
	deleted, err := b.Engine.RequestDelete(channelID, userID)
	if err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	if deleted {
		utils.SendSimpleResponse(s, i, "Global channel deleted. All linked channels have been notified.")
		return
	}

	// Co-owner path: the engine already sent the owner the
	// confirm/decline prompt.
	utils.SendSimpleResponse(s, i, "You are a co-owner, so the owner has been asked to confirm the deletion.")
}

// HandleDeleteConfirmation resolves the owner's confirm/decline button
// press on a co-owner-initiated deletion.
func HandleDeleteConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	customID := i.MessageComponentData().CustomID
	userID := interactionUserID(i)

	var reply string
	switch {
	case strings.HasPrefix(customID, "gc_confirm_delete:"):
		channelID := strings.TrimPrefix(customID, "gc_confirm_delete:")
		if err := b.Engine.ConfirmDelete(channelID, userID); err != nil {
			reply = "❌ " + err.Error()
		} else {
			reply = "Global channel deleted. All linked channels have been notified."
		}
	case strings.HasPrefix(customID, "gc_cancel_delete:"):
		channelID := strings.TrimPrefix(customID, "gc_cancel_delete:")
		if err := b.Engine.DeclineDelete(channelID, userID); err != nil {
			reply = "❌ " + err.Error()
		} else {
			reply = "Deletion declined. The channel stays."
		}
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{Content: reply, Components: []discordgo.MessageComponent{}},
	})
	if err != nil {
		log.Printf("Error updating delete confirmation: %v", err)
	}
}

func handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, userID string) {
	prompt, err := b.Sessions.Start(userID, stringOpt(opts, "channel_id"), globalchat.ActionEdit)
	if err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	if err := utils.SendPrivateMessage(s, userID, prompt); err != nil {
		utils.SendErrorResponse(s, i, "I could not DM you. Enable direct messages and try again.")
		b.Sessions.Cancel(userID)
		return
	}
	utils.SendSimpleResponse(s, i, "Check your DMs — the edit wizard has started.")
}

func handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, userID string) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command only works inside a server channel.")
		return
	}
	if !utils.HasPermission(b, i.GuildID, userID, i.Member.Roles, utils.NodeLink) {
		utils.SendErrorResponse(s, i, "You do not have permission to link channels on this server.")
		return
	}

	channelID := stringOpt(opts, "channel_id")
	if err := b.Engine.Registry().Link(channelID, i.GuildID, i.ChannelID, stringOpt(opts, "key")); err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	ch, _ := b.Engine.Registry().Get(channelID)
	if err := utils.SendPrivateMessage(s, userID,
		fmt.Sprintf("This server is now linked to the global channel **%s**.", ch.Name)); err != nil {
		log.Printf("Link acknowledgement DM to %s failed: %v", userID, err)
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("Linked! Messages here now relay through **%s**.", ch.Name))
}

func handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, userID string) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command only works inside a server channel.")
		return
	}
	if !utils.HasPermission(b, i.GuildID, userID, i.Member.Roles, utils.NodeLink) {
		utils.SendErrorResponse(s, i, "You do not have permission to unlink channels on this server.")
		return
	}
	if err := b.Engine.Registry().Unlink(i.GuildID, i.ChannelID); err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	utils.SendSimpleResponse(s, i, "Unlinked. This channel no longer relays messages.")
}

func handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	ch, ok := b.Engine.Registry().FindByLocalChannel(i.ChannelID)
	if !ok {
		utils.SendErrorResponse(s, i, "This channel is not linked to a global channel.")
		return
	}
	utils.SendEmbedResponse(s, i, channelInfoEmbed(ch))
}

func handleList(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, userID string) {
	channels := b.Engine.Registry().ListByOwnerOrCoOwner(userID)
	if len(channels) == 0 {
		utils.SendSimpleResponse(s, i, "You do not own or co-own any global channels.")
		return
	}
	var sb strings.Builder
	for _, ch := range channels {
		fmt.Fprintf(&sb, "**%s** (`%s`) — %d linked server(s)\n", ch.Name, ch.ID, len(ch.Links))
	}
	utils.SendSimpleResponse(s, i, sb.String())
}

func handleSetRules(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, userID string) {
	raw := strings.Split(stringOpt(opts, "rules"), ";")
	rules := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			rules = append(rules, r)
		}
	}
	if err := b.Engine.SetRules(stringOpt(opts, "channel_id"), userID, rules); err != nil {
		utils.SendErrorResponse(s, i, err.Error())
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("Rules updated (%d rules).", len(rules)))
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func userOptID(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.UserValue(nil).ID
	}
	return ""
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
