package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

const relayWebhookName = "global-chat-relay"

// WebhookPoster posts relayed messages through per-channel webhooks so
// each copy carries the original poster's name and avatar. Webhooks
// are created lazily, once per destination channel, and cached.
type WebhookPoster struct {
	Session *discordgo.Session

	mu    sync.Mutex
	hooks map[string]*discordgo.Webhook
}

func NewWebhookPoster(s *discordgo.Session) *WebhookPoster {
	return &WebhookPoster{
		Session: s,
		hooks:   make(map[string]*discordgo.Webhook),
	}
}

func (p *WebhookPoster) Post(localChannelID, displayName, avatarURL, content string) (string, error) {
	hook, err := p.webhookFor(localChannelID)
	if err != nil {
		return "", err
	}
	msg, err := p.Session.WebhookExecute(hook.ID, hook.Token, true, &discordgo.WebhookParams{
		Content:   content,
		Username:  displayName,
		AvatarURL: avatarURL,
	})
	if err != nil {
		// The cached webhook may have been deleted out from under us;
		// drop it so the next attempt recreates it.
		p.mu.Lock()
		delete(p.hooks, localChannelID)
		p.mu.Unlock()
		return "", err
	}
	if msg == nil {
		return "", fmt.Errorf("webhook execute returned no message for channel %s", localChannelID)
	}
	return msg.ID, nil
}

func (p *WebhookPoster) DeleteMessage(localChannelID, messageID string) error {
	return p.Session.ChannelMessageDelete(localChannelID, messageID)
}

func (p *WebhookPoster) AddReaction(localChannelID, messageID, emoji string) error {
	return p.Session.MessageReactionAdd(localChannelID, messageID, emoji)
}

func (p *WebhookPoster) webhookFor(channelID string) (*discordgo.Webhook, error) {
	p.mu.Lock()
	if hook, ok := p.hooks[channelID]; ok {
		p.mu.Unlock()
		return hook, nil
	}
	p.mu.Unlock()

	hooks, err := p.Session.ChannelWebhooks(channelID)
	if err != nil {
		return nil, err
	}
	var hook *discordgo.Webhook
	for _, h := range hooks {
		if h.Name == relayWebhookName && h.Token != "" {
			hook = h
			break
		}
	}
	if hook == nil {
		hook, err = p.Session.WebhookCreate(channelID, relayWebhookName, "")
		if err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	p.hooks[channelID] = hook
	p.mu.Unlock()
	return hook, nil
}
