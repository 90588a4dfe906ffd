package utils

import (
	"testing"

	"globalchat-bot/model"

	"github.com/stretchr/testify/assert"
)

type cfgProvider struct {
	cfg *model.Config
}

func (p cfgProvider) GetConfig() *model.Config { return p.cfg }

func TestHasPermission(t *testing.T) {
	cfg := &model.Config{DeveloperUserIDs: []string{"dev"}}
	cfg.SetGuildConfig(model.ServerConfig{
		GuildID:      "g1",
		AdminRoleIDs: []string{"admin-role"},
		LinkRoleIDs:  []string{"link-role"},
	})
	p := cfgProvider{cfg: cfg}

	assert.True(t, HasPermission(p, "g1", "dev", nil, NodeModerate), "developers hold every node everywhere")
	assert.True(t, HasPermission(p, "unconfigured", "dev", nil, NodeLink))

	assert.True(t, HasPermission(p, "g1", "u1", []string{"admin-role"}, NodeLink))
	assert.True(t, HasPermission(p, "g1", "u1", []string{"admin-role"}, NodeModerate), "admin roles hold every node")

	assert.True(t, HasPermission(p, "g1", "u2", []string{"link-role"}, NodeLink))
	assert.False(t, HasPermission(p, "g1", "u2", []string{"link-role"}, NodeModerate), "link roles hold only the link node")

	assert.False(t, HasPermission(p, "g1", "u3", []string{"other-role"}, NodeLink))
	assert.False(t, HasPermission(p, "unconfigured", "u1", []string{"admin-role"}, NodeLink), "a guild with no config grants nothing")
}
