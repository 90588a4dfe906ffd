package utils

import "globalchat-bot/model"

// Guild-level permission nodes consulted by the command layer before
// it touches the engine. These gate who in a community may operate on
// links and run moderation wizards from that guild; tiers inside a
// global channel are the engine's own business.
const (
	NodeLink     = "globalchat.link"
	NodeModerate = "globalchat.moderate"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// HasPermission evaluates a permission node for a member of a guild.
// Developers always pass; admin roles hold every node; link roles hold
// only the link node.
func HasPermission(p model.BotConfigProvider, guildID, userID string, roleIDs []string, node string) bool {
	cfg := p.GetConfig()
	if contains(cfg.DeveloperUserIDs, userID) {
		return true
	}
	sc, ok := cfg.GuildConfig(guildID)
	if !ok {
		return false
	}
	for _, roleID := range roleIDs {
		if contains(sc.AdminRoleIDs, roleID) {
			return true
		}
		if node == NodeLink && contains(sc.LinkRoleIDs, roleID) {
			return true
		}
	}
	return false
}
