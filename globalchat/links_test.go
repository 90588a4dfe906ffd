package globalchat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkAndFindByLocalChannel(t *testing.T) {
	env := newTestEnv(t)
	ch := env.newLinkedChannel(t, [2]string{"g1", "c1"})

	found, ok := env.registry.FindByLocalChannel("c1")
	require.True(t, ok)
	assert.Equal(t, ch.ID, found.ID)

	_, ok = env.registry.FindByLocalChannel("unknown")
	assert.False(t, ok)
}

func TestLinkUnknownChannel(t *testing.T) {
	env := newTestEnv(t)
	err := env.registry.Link("missing", "g1", "c1", "")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestLinkKeyChecks(t *testing.T) {
	env := newTestEnv(t)
	ch, err := env.registry.Create(CreateParams{Name: "locked", OwnerID: "owner", KeyRequired: true, Key: "open-sesame"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.registry.Link(ch.ID, "g1", "c1", ""), ErrKeyRequired)
	assert.ErrorIs(t, env.registry.Link(ch.ID, "g1", "c1", "wrong"), ErrWrongKey)
	assert.NoError(t, env.registry.Link(ch.ID, "g1", "c1", "open-sesame"))
}

func TestLinkConflictAndIdempotentRelink(t *testing.T) {
	env := newTestEnv(t)
	first := env.newLinkedChannel(t, [2]string{"g1", "c1"})
	second, err := env.registry.Create(CreateParams{Name: "other", OwnerID: "owner"})
	require.NoError(t, err)

	// Same local channel into a different global channel: conflict.
	assert.ErrorIs(t, env.registry.Link(second.ID, "g1", "c1", ""), ErrAlreadyLinked)

	// Re-linking the exact same pair is a no-op.
	assert.NoError(t, env.registry.Link(first.ID, "g1", "c1", ""))

	found, ok := env.registry.FindByLocalChannel("c1")
	require.True(t, ok)
	assert.Equal(t, first.ID, found.ID)
}

func TestLinkReplacesCommunityChannel(t *testing.T) {
	env := newTestEnv(t)
	ch := env.newLinkedChannel(t, [2]string{"g1", "c1"})

	// The same community moving its link to a new local channel.
	require.NoError(t, env.registry.Link(ch.ID, "g1", "c1-new", ""))

	_, ok := env.registry.FindByLocalChannel("c1")
	assert.False(t, ok, "old local channel is released")
	found, ok := env.registry.FindByLocalChannel("c1-new")
	require.True(t, ok)
	assert.Equal(t, ch.ID, found.ID)
}

func TestLinkBannedCommunity(t *testing.T) {
	env := newTestEnv(t)
	ch, err := env.registry.Create(CreateParams{Name: "x", OwnerID: "owner"})
	require.NoError(t, err)
	require.NoError(t, env.engine.Ban(ch.ID, "owner", "g1"))

	assert.ErrorIs(t, env.registry.Link(ch.ID, "g1", "c1", ""), ErrBanned)
}

func TestUnlink(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"})

	assert.ErrorIs(t, env.registry.Unlink("g1", "never-linked"), ErrNotLinked)

	require.NoError(t, env.registry.Unlink("g1", "c1"))
	_, ok := env.registry.FindByLocalChannel("c1")
	assert.False(t, ok)

	assert.ErrorIs(t, env.registry.Unlink("g1", "c1"), ErrNotLinked)
}
