package model

import "sync"

// ServerConfig holds the per-guild configuration.
type ServerConfig struct {
	Name         string   `json:"name"`
	GuildID      string   `json:"guilds_id"`
	AdminRoleIDs []string `json:"admin_role_ids"`
	LinkRoleIDs  []string `json:"link_role_ids"`
}

// Config stores the application configuration. Guild configs are
// mutated at runtime by the admin command while permission checks read
// them, so access goes through the locked accessors.
type Config struct {
	BotToken             string
	AppID                string
	LogWebhookURL        string
	DatabasePath         string
	RelayCooldownSeconds int
	DeveloperUserIDs     []string

	mu            sync.RWMutex
	serverConfigs map[string]ServerConfig
}

// GuildConfig returns the configuration of one guild.
func (c *Config) GuildConfig(guildID string) (ServerConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sc, ok := c.serverConfigs[guildID]
	return sc, ok
}

// SetGuildConfig stores one guild's configuration.
func (c *Config) SetGuildConfig(sc ServerConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.serverConfigs == nil {
		c.serverConfigs = make(map[string]ServerConfig)
	}
	c.serverConfigs[sc.GuildID] = sc
}
