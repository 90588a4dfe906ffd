package globalchat

import "globalchat-bot/model"

// Poster is the per-channel posting capability the relay engine sends
// through. The production implementation executes Discord webhooks
// (created lazily per destination channel); tests inject fakes.
type Poster interface {
	// Post sends text into a local channel under the given identity
	// and returns the id of the created message.
	Post(localChannelID, displayName, avatarURL, content string) (string, error)
	DeleteMessage(localChannelID, messageID string) error
	AddReaction(localChannelID, messageID, emoji string) error
}

// Notifier delivers best-effort private messages to users. The
// deletion confirmation request is its own method so the production
// implementation can attach confirm/decline controls; plain text goes
// through NotifyUser.
type Notifier interface {
	NotifyUser(userID, message string) error
	RequestDeleteConfirmation(ownerID, channelID, channelName, requesterID string) error
}

// Store persists the full channel registry. Saves are whole-registry
// writes; there are no partial updates.
type Store interface {
	SaveChannels(channels []*model.GlobalChannel) error
	LoadChannels() ([]*model.GlobalChannel, error)
}

// CommunityResolver resolves a community id to its display name for
// message templating.
type CommunityResolver interface {
	CommunityName(communityID string) string
}
