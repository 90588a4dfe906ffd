package globalchat

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"globalchat-bot/model"

	"github.com/stretchr/testify/require"
)

// fakeStore keeps the registry in memory and counts writes.
type fakeStore struct {
	mu        sync.Mutex
	saved     []*model.GlobalChannel
	saveCount int
}

func (s *fakeStore) SaveChannels(channels []*model.GlobalChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = channels
	s.saveCount++
	return nil
}

func (s *fakeStore) LoadChannels() ([]*model.GlobalChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved, nil
}

func (s *fakeStore) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCount
}

type postCall struct {
	ChannelID   string
	DisplayName string
	AvatarURL   string
	Content     string
}

type targetCall struct {
	ChannelID string
	MessageID string
	Emoji     string
}

// fakePoster records every platform call and can fail per channel.
type fakePoster struct {
	mu        sync.Mutex
	posts     []postCall
	deletes   []targetCall
	reactions []targetCall
	failPost  map[string]bool
	nextID    int
}

func newFakePoster() *fakePoster {
	return &fakePoster{failPost: make(map[string]bool)}
}

func (p *fakePoster) Post(channelID, displayName, avatarURL, content string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPost[channelID] {
		return "", errors.New("send failed")
	}
	p.nextID++
	id := fmt.Sprintf("copy-%d", p.nextID)
	p.posts = append(p.posts, postCall{channelID, displayName, avatarURL, content})
	return id, nil
}

func (p *fakePoster) DeleteMessage(channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletes = append(p.deletes, targetCall{ChannelID: channelID, MessageID: messageID})
	return nil
}

func (p *fakePoster) AddReaction(channelID, messageID, emoji string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactions = append(p.reactions, targetCall{channelID, messageID, emoji})
	return nil
}

func (p *fakePoster) postedChannels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, c := range p.posts {
		out = append(out, c.ChannelID)
	}
	return out
}

func (p *fakePoster) postCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.posts)
}

// fakeNotifier records user notifications and confirmation prompts.
type fakeNotifier struct {
	mu       sync.Mutex
	messages map[string][]string
	confirms map[string][]string // owner id -> channel ids
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		messages: make(map[string][]string),
		confirms: make(map[string][]string),
	}
}

func (n *fakeNotifier) NotifyUser(userID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[userID] = append(n.messages[userID], message)
	return nil
}

func (n *fakeNotifier) RequestDeleteConfirmation(ownerID, channelID, channelName, requesterID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirms[ownerID] = append(n.confirms[ownerID], channelID)
	return nil
}

func (n *fakeNotifier) sentTo(userID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.messages[userID]
}

func (n *fakeNotifier) confirmsFor(ownerID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.confirms[ownerID]
}

// fakeResolver names communities "Server <id>".
type fakeResolver struct{}

func (fakeResolver) CommunityName(communityID string) string {
	return "Server " + communityID
}

type testEnv struct {
	engine   *Engine
	registry *Registry
	store    *fakeStore
	poster   *fakePoster
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := &fakeStore{}
	registry, err := NewRegistry(store)
	require.NoError(t, err)
	poster := newFakePoster()
	notifier := newFakeNotifier()
	engine := NewEngine(registry, NewTracker(), poster, notifier, fakeResolver{}, 50*time.Millisecond)
	return &testEnv{
		engine:   engine,
		registry: registry,
		store:    store,
		poster:   poster,
		notifier: notifier,
	}
}

// newLinkedChannel creates a channel owned by "owner" and links the
// given (community, local channel) pairs into it.
func (env *testEnv) newLinkedChannel(t *testing.T, pairs ...[2]string) *model.GlobalChannel {
	t.Helper()
	ch, err := env.registry.Create(CreateParams{Name: "test-channel", OwnerID: "owner"})
	require.NoError(t, err)
	for _, pair := range pairs {
		require.NoError(t, env.registry.Link(ch.ID, pair[0], pair[1], ""))
	}
	return ch
}

func inbound(community, channel, messageID, author, content string) InboundMessage {
	return InboundMessage{
		SourceCommunityID: community,
		SourceChannelID:   channel,
		MessageID:         messageID,
		AuthorID:          author,
		DisplayName:       "Alice",
		Username:          "alice",
		GlobalName:        "Alice",
		Content:           content,
	}
}
