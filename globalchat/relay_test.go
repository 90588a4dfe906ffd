package globalchat

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"globalchat-bot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayFansOutToAllOthers(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"}, [2]string{"g3", "c3"})

	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hello"))

	channels := env.poster.postedChannels()
	assert.ElementsMatch(t, []string{"c2", "c3"}, channels, "every other linked channel gets a copy, the origin does not")

	rec, ok := env.engine.tracker.Lookup("m1")
	require.True(t, ok)
	assert.Len(t, rec.Copies, 2)
	assert.NotContains(t, rec.Copies, "c1")
}

func TestRelayUnlinkedSourceIsSilent(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"})

	env.engine.RelayMessage(inbound("g9", "c9", "m1", "alice", "hello"))
	assert.Zero(t, env.poster.postCount())
}

func TestRelayPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"}, [2]string{"g3", "c3"}, [2]string{"g4", "c4"})
	env.poster.failPost["c3"] = true

	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hello"))

	assert.ElementsMatch(t, []string{"c2", "c4"}, env.poster.postedChannels(), "one failing destination never aborts the rest")

	rec, ok := env.engine.tracker.Lookup("m1")
	require.True(t, ok)
	assert.Len(t, rec.Copies, 2, "the record holds exactly the successful destinations")
	assert.Contains(t, rec.Copies, "c2")
	assert.Contains(t, rec.Copies, "c4")
}

func TestMuteSuppressesWithoutUnlinking(t *testing.T) {
	env := newTestEnv(t)
	ch := env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})
	require.NoError(t, env.engine.Mute(ch.ID, "owner", "g1", 0))

	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hello"))
	assert.Zero(t, env.poster.postCount(), "muted community does not relay")

	_, ok := env.registry.FindByLocalChannel("c1")
	assert.True(t, ok, "mute does not sever the link")

	require.NoError(t, env.engine.Unmute(ch.ID, "owner", "g1"))
	env.engine.RelayMessage(inbound("g1", "c1", "m2", "bob", "back again"))
	assert.Equal(t, 1, env.poster.postCount(), "unmute restores relay without re-linking")
}

func TestRelayCooldownWindow(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})

	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "first"))
	env.engine.RelayMessage(inbound("g1", "c1", "m2", "alice", "too fast"))
	assert.Equal(t, 1, env.poster.postCount(), "a message inside the window is dropped silently")

	time.Sleep(60 * time.Millisecond)
	env.engine.RelayMessage(inbound("g1", "c1", "m3", "alice", "third"))
	assert.Equal(t, 2, env.poster.postCount(), "a message after the window relays normally")
}

func TestConcurrentRelayAndModeration(t *testing.T) {
	env := newTestEnv(t)
	ch := env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})

	// Relay reads the channel's moderation state while moderation verbs
	// mutate it; both must be able to run at full tilt concurrently.
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				author := fmt.Sprintf("user-%d-%d", n, j)
				env.engine.RelayMessage(inbound("g1", "c1", fmt.Sprintf("m-%d-%d", n, j), author, "hi"))
			}
		}(n)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				assert.NoError(t, env.engine.Warn(ch.ID, "owner", "g1", "strike"))
			}
		}()
	}
	wg.Wait()

	got, _ := env.registry.Get(ch.ID)
	assert.Len(t, got.Moderation["g1"].Warnings, 200, "no moderation update is lost to a concurrent relay")
}

func TestComposeDefaultAndExplicitSuffix(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})

	// Never set: the system default suffix tags the source server.
	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hi"))
	require.Equal(t, 1, env.poster.postCount())
	assert.Equal(t, "hi `[Server g1]`", env.poster.posts[0].Content)
}

func TestComposeExplicitlyBlankSuffixDiffersFromUnset(t *testing.T) {
	env := newTestEnv(t)
	ch := env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})
	require.NoError(t, env.registry.Update(ch.ID, func(c *model.GlobalChannel) error {
		c.Suffix = model.OptionalText{Set: true, Value: ""}
		return nil
	}))

	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hi"))
	require.Equal(t, 1, env.poster.postCount())
	assert.Equal(t, "hi", env.poster.posts[0].Content, "explicitly blank means no suffix at all")
}

func TestComposeConfiguredPrefixPlaceholders(t *testing.T) {
	env := newTestEnv(t)
	ch := env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})
	require.NoError(t, env.registry.Update(ch.ID, func(c *model.GlobalChannel) error {
		c.Prefix = model.OptionalText{Set: true, Value: "[{server} | {username}]"}
		c.Suffix = model.OptionalText{Set: true, Value: ""}
		return nil
	}))

	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hi"))
	require.Equal(t, 1, env.poster.postCount())
	assert.Equal(t, "[Server g1 | alice] hi", env.poster.posts[0].Content)
}

func TestComposeTruncatesLongContent(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})

	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", strings.Repeat("x", 4000)))
	require.Equal(t, 1, env.poster.postCount())
	assert.LessOrEqual(t, len([]rune(env.poster.posts[0].Content)), maxMessageLength)
}

func TestComposeAttachmentCap(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})

	msg := inbound("g1", "c1", "m1", "alice", "look")
	msg.AttachmentURLs = []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	env.engine.RelayMessage(msg)

	require.Equal(t, 1, env.poster.postCount())
	content := env.poster.posts[0].Content
	assert.Contains(t, content, "u4")
	assert.NotContains(t, content, "u5", "attachment references beyond the cap are dropped")
}

func TestReactionFanOutSkipsOrigin(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"}, [2]string{"g3", "c3"})
	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hello"))

	rec, ok := env.engine.tracker.Lookup("m1")
	require.True(t, ok)
	copyInC2 := rec.Copies["c2"]
	require.NotEmpty(t, copyInC2)

	// React on the copy in c2: the original in c1 and the copy in c3
	// get the reaction; c2 already has it.
	env.engine.RelayReaction(copyInC2, "c2", "👍")

	require.Len(t, env.poster.reactions, 2)
	channels := []string{env.poster.reactions[0].ChannelID, env.poster.reactions[1].ChannelID}
	assert.ElementsMatch(t, []string{"c1", "c3"}, channels)
}

func TestReactionOnUntrackedMessageIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"})

	env.engine.RelayReaction("unknown-id", "c1", "👍")
	assert.Empty(t, env.poster.reactions)
}

func TestDeletionSymmetry(t *testing.T) {
	env := newTestEnv(t)
	env.newLinkedChannel(t, [2]string{"g1", "c1"}, [2]string{"g2", "c2"}, [2]string{"g3", "c3"})
	env.engine.RelayMessage(inbound("g1", "c1", "m1", "alice", "hello"))

	rec, ok := env.engine.tracker.Lookup("m1")
	require.True(t, ok)
	copyInC2 := rec.Copies["c2"]
	copyInC3 := rec.Copies["c3"]

	// The user deletes the copy in c2; the engine removes the other
	// two, but never re-deletes the already-gone anchor.
	ids := env.engine.DeleteRelayedMessages(copyInC2, "c2")
	assert.ElementsMatch(t, []string{"m1", copyInC2, copyInC3}, ids)

	require.Len(t, env.poster.deletes, 2)
	deleted := []string{env.poster.deletes[0].MessageID, env.poster.deletes[1].MessageID}
	assert.ElementsMatch(t, []string{"m1", copyInC3}, deleted)

	for _, id := range ids {
		assert.True(t, env.engine.IsDeletePending(id), "all affected ids are marked before deletes go out")
	}
	assert.False(t, env.engine.IsTrackedMessage("m1"), "the record is gone")

	// The platform now reports the bot's own deletion of the copy in
	// c3; re-entering must be a no-op.
	assert.True(t, env.engine.IsDeletePending(copyInC3))
	env.engine.DeleteRelayedMessages(copyInC3, "c3")
	assert.Len(t, env.poster.deletes, 2, "no double-delete calls")
}

func TestDeleteUntrackedMessageIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	assert.Nil(t, env.engine.DeleteRelayedMessages("unknown", "c1"))
	assert.Empty(t, env.poster.deletes)
}
