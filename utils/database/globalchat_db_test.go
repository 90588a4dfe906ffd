package database

import (
	"testing"
	"time"

	"globalchat-bot/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, CreateGlobalChatTables(db))
	return db
}

func TestChannelStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewChannelStore(db)

	muteUntil := time.Now().Add(time.Hour).UnixMilli()
	ch := &model.GlobalChannel{
		ID:           "gc-1",
		Name:         "artists-lounge",
		Description:  "cross-server art chat",
		Visibility:   model.VisibilityPrivate,
		OwnerID:      "owner",
		CoOwnerIDs:   []string{"co1", "co2"},
		ModeratorIDs: []string{"mod"},
		KeyRequired:  true,
		Key:          "sekrit",
		Prefix:       model.OptionalText{Set: true, Value: "[{server}]"},
		Rules:        []string{"no spoilers", "be kind"},
		Links:        map[string]string{"g1": "c1", "g2": "c2"},
		Moderation: map[string]*model.CommunityModeration{
			"g3": {
				Banned:    true,
				MuteUntil: &muteUntil,
				Warnings: []model.Warning{
					{Reason: "spam", IssuerID: "owner", IssuedAt: 1700000000000},
				},
			},
		},
	}
	require.NoError(t, store.SaveChannels([]*model.GlobalChannel{ch}))

	loaded, err := store.LoadChannels()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	got := loaded[0]

	assert.Equal(t, ch.ID, got.ID)
	assert.Equal(t, ch.Name, got.Name)
	assert.Equal(t, model.VisibilityPrivate, got.Visibility)
	assert.Equal(t, []string{"co1", "co2"}, got.CoOwnerIDs)
	assert.Equal(t, []string{"mod"}, got.ModeratorIDs)
	assert.True(t, got.KeyRequired)
	assert.Equal(t, "sekrit", got.Key)
	assert.Equal(t, ch.Rules, got.Rules)
	assert.Equal(t, ch.Links, got.Links)

	require.Contains(t, got.Moderation, "g3")
	m := got.Moderation["g3"]
	assert.True(t, m.Banned)
	require.NotNil(t, m.MuteUntil)
	assert.Equal(t, muteUntil, *m.MuteUntil)
	require.Len(t, m.Warnings, 1)
	assert.Equal(t, "spam", m.Warnings[0].Reason)

	// Set-but-blank and never-set survive the trip as distinct states.
	assert.True(t, got.Prefix.Set)
	assert.Equal(t, "[{server}]", got.Prefix.Value)
	assert.False(t, got.Suffix.Set)
}

func TestSaveChannelsReplacesPreviousContents(t *testing.T) {
	db := newTestDB(t)
	store := NewChannelStore(db)

	first := &model.GlobalChannel{ID: "a", Name: "first", Links: map[string]string{}, Moderation: map[string]*model.CommunityModeration{}}
	second := &model.GlobalChannel{ID: "b", Name: "second", Links: map[string]string{}, Moderation: map[string]*model.CommunityModeration{}}
	require.NoError(t, store.SaveChannels([]*model.GlobalChannel{first, second}))

	// Dropping a channel from the registry drops its row on save.
	require.NoError(t, store.SaveChannels([]*model.GlobalChannel{second}))
	loaded, err := store.LoadChannels()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].ID)
}

func TestLoadChannelsEmptyDB(t *testing.T) {
	db := newTestDB(t)
	store := NewChannelStore(db)
	loaded, err := store.LoadChannels()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestGuildConfigRoundTrip(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, UpsertGuildConfig(db, model.ServerConfig{
		GuildID:      "g1",
		Name:         "Art Server",
		AdminRoleIDs: []string{"r1", "r2"},
		LinkRoleIDs:  []string{"r3"},
	}))
	require.NoError(t, UpsertGuildConfig(db, model.ServerConfig{
		GuildID: "g2",
		Name:    "Quiet Server",
	}))

	var cfg model.Config
	require.NoError(t, LoadConfigFromDB(db, &cfg))

	sc, ok := cfg.GuildConfig("g1")
	require.True(t, ok)
	assert.Equal(t, "Art Server", sc.Name)
	assert.Equal(t, []string{"r1", "r2"}, sc.AdminRoleIDs)
	assert.Equal(t, []string{"r3"}, sc.LinkRoleIDs)
	quiet, ok := cfg.GuildConfig("g2")
	require.True(t, ok)
	assert.Nil(t, quiet.AdminRoleIDs)
	_, ok = cfg.GuildConfig("g9")
	assert.False(t, ok)

	// Upsert overwrites in place.
	require.NoError(t, UpsertGuildConfig(db, model.ServerConfig{GuildID: "g1", Name: "Renamed"}))
	require.NoError(t, LoadConfigFromDB(db, &cfg))
	sc, _ = cfg.GuildConfig("g1")
	assert.Equal(t, "Renamed", sc.Name)
}
