package commands

import "github.com/bwmarrin/discordgo"

// GenerateCommands builds the application command set. Commands are
// global: any guild the bot is in may link into a global channel.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "global-chat",
			Description: "Manage cross-server global chat channels",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new global channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Channel name", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Channel description"},
						{
							Type: discordgo.ApplicationCommandOptionString, Name: "visibility", Description: "Who can find this channel",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "public", Value: "public"},
								{Name: "private", Value: "private"},
							},
						},
						{Type: discordgo.ApplicationCommandOptionString, Name: "key", Description: "Join key (leaving this empty means no key is required)"},
						{Type: discordgo.ApplicationCommandOptionString, Name: "prefix", Description: "Message prefix template"},
						{Type: discordgo.ApplicationCommandOptionString, Name: "suffix", Description: "Message suffix template"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a global channel (co-owners need the owner's confirmation)",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit a global channel through a DM wizard",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Link this channel into a global channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "key", Description: "Join key, if the channel requires one"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Unlink this channel from its global channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Show the global channel this channel is linked to",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the global channels you own or co-own",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set-rules",
					Description: "Replace the channel rules (separate rules with ;)",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "rules", Description: "Rules, separated by ;", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add-co-owner",
					Description: "Grant co-ownership of a global channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to promote", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add-moderator",
					Description: "Grant moderator rights on a global channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to promote", Required: true},
					},
				},
			},
		},
		{
			Name:        "global-chat-mod",
			Description: "Moderate servers linked to a global channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "action",
					Description: "Run a moderation action through a DM wizard",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
						{
							Type: discordgo.ApplicationCommandOptionString, Name: "action", Description: "Moderation action", Required: true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "mute", Value: "mute"},
								{Name: "unmute", Value: "unmute"},
								{Name: "ban", Value: "ban"},
								{Name: "unban", Value: "unban"},
								{Name: "warn", Value: "warn"},
								{Name: "unwarn", Value: "unwarn"},
								{Name: "kick", Value: "kick"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "warnings",
					Description: "Show the warning history of a linked server",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel_id", Description: "Global channel id", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "server_id", Description: "Server id", Required: true},
					},
				},
			},
		},
		{
			Name:        "global-chat-admin",
			Description: "Configure who on this server may use global chat",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set-roles",
					Description: "Set the roles that may administer and link global chat here",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionRole, Name: "admin_role", Description: "Role granted every global chat permission"},
						{Type: discordgo.ApplicationCommandOptionRole, Name: "link_role", Description: "Role allowed to link and unlink channels"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show-roles",
					Description: "Show the configured global chat roles",
				},
			},
		},
		{
			Name:        "global-chat-status",
			Description: "Show bot and relay engine status",
		},
	}
}
