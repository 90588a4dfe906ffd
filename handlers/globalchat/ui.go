package globalchat

import (
	"fmt"
	"strings"
	"time"

	"globalchat-bot/model"

	"github.com/bwmarrin/discordgo"
)

func channelInfoEmbed(ch *model.GlobalChannel) *discordgo.MessageEmbed {
	keyState := "no"
	if ch.KeyRequired {
		keyState = "yes"
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "ID", Value: fmt.Sprintf("`%s`", ch.ID), Inline: true},
		{Name: "Visibility", Value: ch.Visibility, Inline: true},
		{Name: "Key required", Value: keyState, Inline: true},
		{Name: "Owner", Value: fmt.Sprintf("<@%s>", ch.OwnerID), Inline: true},
		{Name: "Linked servers", Value: fmt.Sprintf("%d", len(ch.Links)), Inline: true},
	}
	if len(ch.Rules) > 0 {
		var sb strings.Builder
		for n, rule := range ch.Rules {
			fmt.Fprintf(&sb, "%d. %s\n", n+1, rule)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Rules", Value: sb.String()})
	}
	return &discordgo.MessageEmbed{
		Title:       ch.Name,
		Description: ch.Description,
		Color:       0x5865F2, // Discord Blurple
		Fields:      fields,
	}
}

func warningsEmbed(ch *model.GlobalChannel, communityID string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Warnings for server %s on %s", communityID, ch.Name),
		Color: 0xED4245, // Discord Red
	}
	m, ok := ch.Moderation[communityID]
	if !ok || len(m.Warnings) == 0 {
		embed.Description = "No warnings on record."
		return embed
	}
	for n, w := range m.Warnings {
		issued := time.UnixMilli(w.IssuedAt).UTC().Format("2006-01-02 15:04")
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d — %s UTC", n+1, issued),
			Value: fmt.Sprintf("%s (by <@%s>)", w.Reason, w.IssuerID),
		})
	}
	return embed
}
