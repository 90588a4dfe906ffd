package model

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot provides an interface for bot functionality to avoid circular dependencies.
type Bot interface {
	GetConfig() *Config
	GetSession() *discordgo.Session
	GetDB() *sqlx.DB
}

// BotConfigProvider provides an interface to get the bot's configuration.
type BotConfigProvider interface {
	GetConfig() *Config
}
