package globalchat

import (
	"log"
	"strings"
	"sync"
	"time"
)

const (
	maxMessageLength  = 2000
	maxContentLength  = 1800
	maxAttachmentRefs = 4
	replyQuoteLength  = 64

	defaultPrefix = ""
	defaultSuffix = "`[{server}]`"
)

// InboundMessage is one message arriving from a linked local channel,
// as captured by the boundary listener. Pronoun labels are collected
// by an external collaborator and passed through for templating.
type InboundMessage struct {
	SourceCommunityID string
	SourceChannelID   string
	MessageID         string
	AuthorID          string
	DisplayName       string
	Username          string
	GlobalName        string
	AvatarURL         string
	Pronouns          []string
	Content           string
	AttachmentURLs    []string
	ReplyAuthor       string
	ReplyContent      string
}

// Engine is the cross-community relay core. It fans inbound messages,
// reactions and deletions out to every other linked channel, keeping
// the correspondence tracker in step.
type Engine struct {
	registry *Registry
	tracker  *Tracker
	poster   Poster
	notifier Notifier
	resolver CommunityResolver

	cooldown   time.Duration
	cooldownMu sync.Mutex
	lastRelay  map[string]time.Time

	confirmMu      sync.Mutex
	pendingDeletes map[string]deleteRequest
}

type deleteRequest struct {
	RequesterID string
	RequestedAt time.Time
}

const deleteConfirmTTL = 5 * time.Minute

func NewEngine(registry *Registry, tracker *Tracker, poster Poster, notifier Notifier, resolver CommunityResolver, cooldown time.Duration) *Engine {
	if cooldown <= 0 {
		cooldown = 3 * time.Second
	}
	return &Engine{
		registry:       registry,
		tracker:        tracker,
		poster:         poster,
		notifier:       notifier,
		resolver:       resolver,
		cooldown:       cooldown,
		lastRelay:      make(map[string]time.Time),
		pendingDeletes: make(map[string]deleteRequest),
	}
}

// Registry exposes the channel registry for the command layer.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// RelayMessage fans one inbound message out to every other channel
// linked to the same global channel. It is silent on suppression: an
// unlinked source, a muted community or a poster inside the cooldown
// window all drop the message without an error.
func (e *Engine) RelayMessage(msg InboundMessage) {
	ch, ok := e.registry.FindByLocalChannel(msg.SourceChannelID)
	if !ok {
		return
	}
	if ch.IsMuted(msg.SourceCommunityID, time.Now()) {
		return
	}
	if !e.allowPoster(msg.AuthorID) {
		return
	}

	channelName := ch.Name
	text := e.composeOutbound(ch.Prefix.Text(defaultPrefix), ch.Suffix.Text(defaultSuffix), msg)
	targets := e.registry.linksSnapshot(ch.ID)

	var wg sync.WaitGroup
	for _, destChannelID := range targets {
		if destChannelID == msg.SourceChannelID {
			continue
		}
		wg.Add(1)
		go func(dest string) {
			defer wg.Done()
			copyID, err := e.poster.Post(dest, msg.DisplayName, msg.AvatarURL, text)
			if err != nil {
				// Per-destination failure: skip this channel, the
				// rest of the fan-out continues.
				log.Printf("global chat %s: relay to channel %s failed: %v", channelName, dest, err)
				return
			}
			e.tracker.AddCopy(msg.SourceCommunityID, msg.SourceChannelID, msg.MessageID, dest, copyID)
		}(destChannelID)
	}
	wg.Wait()
}

// RelayReaction applies a reaction observed on any tracked message to
// every sibling copy, skipping the channel it originated in.
func (e *Engine) RelayReaction(anchorMessageID, sourceChannelID, emoji string) {
	rec, ok := e.tracker.Lookup(anchorMessageID)
	if !ok {
		return
	}
	for channelID, messageID := range rec.allCopies() {
		if channelID == sourceChannelID {
			continue
		}
		if err := e.poster.AddReaction(channelID, messageID, emoji); err != nil {
			log.Printf("global chat: reaction relay to channel %s failed: %v", channelID, err)
		}
	}
}

// DeleteRelayedMessages removes every sibling of a deleted tracked
// message. All affected ids are marked delete-pending before the first
// outbound delete call so the deletion listener can recognise the
// engine's own deletions, and the full id set is returned for callers
// that prefer to consult it synchronously. The anchor itself is
// already gone and is not re-deleted.
func (e *Engine) DeleteRelayedMessages(anchorMessageID, sourceChannelID string) []string {
	rec, ok := e.tracker.Lookup(anchorMessageID)
	if !ok {
		return nil
	}

	copies := rec.allCopies()
	ids := make([]string, 0, len(copies))
	for _, messageID := range copies {
		ids = append(ids, messageID)
	}
	e.tracker.MarkDeletePending(ids)

	for channelID, messageID := range copies {
		if messageID == anchorMessageID {
			continue
		}
		if err := e.poster.DeleteMessage(channelID, messageID); err != nil {
			log.Printf("global chat: delete relay in channel %s failed: %v", channelID, err)
		}
	}
	e.tracker.Remove(rec.SourceMessageID)
	return ids
}

// IsTrackedMessage reports whether the id belongs to a relayed set.
func (e *Engine) IsTrackedMessage(messageID string) bool {
	return e.tracker.IsTracked(messageID)
}

// IsDeletePending reports whether a deletion of this id was initiated
// by the engine itself.
func (e *Engine) IsDeletePending(messageID string) bool {
	return e.tracker.IsDeletePending(messageID)
}

// PruneTracker evicts stale correspondence records; driven by the bot
// scheduler.
func (e *Engine) PruneTracker() {
	e.tracker.Prune()
}

// TrackedRecordCount returns the number of live correspondence
// records, for the status command.
func (e *Engine) TrackedRecordCount() int {
	return e.tracker.Len()
}

// allCopies returns every (channel id, message id) pair in the set,
// original included.
func (r Record) allCopies() map[string]string {
	all := make(map[string]string, len(r.Copies)+1)
	all[r.SourceChannelID] = r.SourceMessageID
	for channelID, messageID := range r.Copies {
		all[channelID] = messageID
	}
	return all
}

// allowPoster enforces the fixed-window per-poster cooldown. Messages
// arriving inside the window are dropped, not queued.
func (e *Engine) allowPoster(authorID string) bool {
	e.cooldownMu.Lock()
	defer e.cooldownMu.Unlock()
	if last, ok := e.lastRelay[authorID]; ok {
		if time.Since(last) < e.cooldown {
			return false
		}
	}
	e.lastRelay[authorID] = time.Now()
	return true
}

// CleanupCooldowns drops stale cooldown entries; driven by the bot
// scheduler.
func (e *Engine) CleanupCooldowns() {
	e.cooldownMu.Lock()
	defer e.cooldownMu.Unlock()
	for id, t := range e.lastRelay {
		if time.Since(t) > time.Hour {
			delete(e.lastRelay, id)
		}
	}
}

func (e *Engine) composeOutbound(prefix, suffix string, msg InboundMessage) string {
	var body strings.Builder
	if msg.ReplyAuthor != "" {
		quote := msg.ReplyContent
		if len([]rune(quote)) > replyQuoteLength {
			quote = string([]rune(quote)[:replyQuoteLength]) + "…"
		}
		body.WriteString("> **" + msg.ReplyAuthor + "**: " + quote + "\n")
	}
	content := msg.Content
	if len([]rune(content)) > maxContentLength {
		content = string([]rune(content)[:maxContentLength])
	}
	body.WriteString(content)
	for i, url := range msg.AttachmentURLs {
		if i >= maxAttachmentRefs {
			break
		}
		body.WriteString("\n" + url)
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{e.expandPlaceholders(prefix, msg), body.String(), e.expandPlaceholders(suffix, msg)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := strings.Join(parts, " ")
	if len([]rune(out)) > maxMessageLength {
		out = string([]rune(out)[:maxMessageLength])
	}
	return out
}

func (e *Engine) expandPlaceholders(s string, msg InboundMessage) string {
	if s == "" {
		return ""
	}
	server := ""
	if e.resolver != nil {
		server = e.resolver.CommunityName(msg.SourceCommunityID)
	}
	r := strings.NewReplacer(
		"{name}", msg.DisplayName,
		"{username}", msg.Username,
		"{globalname}", msg.GlobalName,
		"{server}", server,
		"{pronouns}", strings.Join(msg.Pronouns, "/"),
	)
	return r.Replace(s)
}
