package bot

import (
	"fmt"

	"globalchat-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// DMNotifier delivers best-effort private messages (deletion
// confirmations, link acknowledgements).
type DMNotifier struct {
	Session *discordgo.Session
}

func (n *DMNotifier) NotifyUser(userID, message string) error {
	return utils.SendPrivateMessage(n.Session, userID, message)
}

// RequestDeleteConfirmation DMs the owner a confirm/decline prompt for
// a co-owner's deletion request. The button custom ids route back
// through the component handler.
func (n *DMNotifier) RequestDeleteConfirmation(ownerID, channelID, channelName, requesterID string) error {
	send := &discordgo.MessageSend{
		Content: fmt.Sprintf("Co-owner <@%s> wants to delete the global channel **%s** (`%s`).", requesterID, channelName, channelID),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Delete", Style: discordgo.DangerButton, CustomID: "gc_confirm_delete:" + channelID},
				discordgo.Button{Label: "Keep", Style: discordgo.SecondaryButton, CustomID: "gc_cancel_delete:" + channelID},
			}},
		},
	}
	return utils.SendPrivateComplexMessage(n.Session, ownerID, send)
}
