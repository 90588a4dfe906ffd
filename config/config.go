package config

import (
	"log"
	"strings"

	"globalchat-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from the environment. A .env file is
// read first when present; guild-specific settings come from the
// database afterwards.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("GLOBAL_CHAT_DB", "./data/globalchat.db")
	v.SetDefault("RELAY_COOLDOWN_SECONDS", 3)

	token := v.GetString("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := v.GetString("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	if v.GetString("LOG_WEBHOOK_URL") == "" {
		log.Println("Warning: LOG_WEBHOOK_URL not set, webhook logging will be disabled")
	}

	cfg := &model.Config{
		BotToken:             token,
		AppID:                appID,
		LogWebhookURL:        v.GetString("LOG_WEBHOOK_URL"),
		DatabasePath:         v.GetString("GLOBAL_CHAT_DB"),
		RelayCooldownSeconds: v.GetInt("RELAY_COOLDOWN_SECONDS"),
		DeveloperUserIDs:     splitList(v.GetString("DEVELOPER_USER_IDS")),
	}
	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
