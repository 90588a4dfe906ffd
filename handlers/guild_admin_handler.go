package handlers

import (
	"fmt"
	"log"

	"globalchat-bot/model"
	"globalchat-bot/utils"
	"globalchat-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

// GuildAdminHandler routes /global-chat-admin. It writes the guild's
// role configuration, which is what HasPermission consults for the
// link and moderate nodes — without it only developers pass. Gated on
// the Discord Administrator permission so it works before any roles
// are configured.
func GuildAdminHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command only works inside a server channel.")
		return
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		utils.SendErrorResponse(s, i, "Only server administrators can configure global chat roles.")
		return
	}

	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "set-roles":
		handleSetRoles(s, i, b, sub.Options)
	case "show-roles":
		handleShowRoles(s, i, b)
	}
}

func handleSetRoles(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	sc := model.ServerConfig{GuildID: i.GuildID, Name: i.GuildID}
	if g, err := s.State.Guild(i.GuildID); err == nil {
		sc.Name = g.Name
	}
	for _, opt := range opts {
		switch opt.Name {
		case "admin_role":
			sc.AdminRoleIDs = append(sc.AdminRoleIDs, opt.RoleValue(s, i.GuildID).ID)
		case "link_role":
			sc.LinkRoleIDs = append(sc.LinkRoleIDs, opt.RoleValue(s, i.GuildID).ID)
		}
	}

	if err := database.UpsertGuildConfig(b.GetDB(), sc); err != nil {
		log.Printf("Saving guild config for %s failed: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Saving the role configuration failed.")
		return
	}
	b.GetConfig().SetGuildConfig(sc)
	utils.SendSimpleResponse(s, i, fmt.Sprintf(
		"Global chat roles updated: %d admin role(s), %d link role(s).",
		len(sc.AdminRoleIDs), len(sc.LinkRoleIDs)))
}

func handleShowRoles(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	sc, ok := b.GetConfig().GuildConfig(i.GuildID)
	if !ok {
		utils.SendSimpleResponse(s, i, "No global chat roles are configured for this server yet.")
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf(
		"Admin roles: %s\nLink roles: %s", mentionRoles(sc.AdminRoleIDs), mentionRoles(sc.LinkRoleIDs)))
}

func mentionRoles(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	out := ""
	for n, id := range ids {
		if n > 0 {
			out += ", "
		}
		out += "<@&" + id + ">"
	}
	return out
}
