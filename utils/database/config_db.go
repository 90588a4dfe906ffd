package database

import (
	"strings"

	"globalchat-bot/model"

	"github.com/jmoiron/sqlx"
)

type guildConfigRow struct {
	GuildID      string `db:"guild_id"`
	Name         string `db:"name"`
	AdminRoleIDs string `db:"admin_role_ids"`
	LinkRoleIDs  string `db:"link_role_ids"`
}

// LoadConfigFromDB fills the per-guild configs from the guild_configs
// table.
func LoadConfigFromDB(db *sqlx.DB, cfg *model.Config) error {
	var rows []guildConfigRow
	if err := db.Select(&rows, `SELECT guild_id, name, admin_role_ids, link_role_ids FROM guild_configs`); err != nil {
		return err
	}
	for _, row := range rows {
		cfg.SetGuildConfig(model.ServerConfig{
			GuildID:      row.GuildID,
			Name:         row.Name,
			AdminRoleIDs: splitIDs(row.AdminRoleIDs),
			LinkRoleIDs:  splitIDs(row.LinkRoleIDs),
		})
	}
	return nil
}

// UpsertGuildConfig writes one guild's role configuration.
func UpsertGuildConfig(db *sqlx.DB, sc model.ServerConfig) error {
	_, err := db.Exec(
		`INSERT OR REPLACE INTO guild_configs (guild_id, name, admin_role_ids, link_role_ids) VALUES (?, ?, ?, ?)`,
		sc.GuildID, sc.Name, strings.Join(sc.AdminRoleIDs, ","), strings.Join(sc.LinkRoleIDs, ","))
	return err
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
