package database

import (
	"encoding/json"
	"fmt"

	"globalchat-bot/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitDB opens the sqlite database backing the bot.
func InitDB(filepath string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", filepath)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// CreateGlobalChatTables creates the persistence tables. Each global
// channel is one row; the nested sub-structures (links, rules,
// moderation state) live in JSON columns of the same row so a save is
// a single unit per record.
func CreateGlobalChatTables(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS global_channels (
		"id" TEXT NOT NULL PRIMARY KEY,
		"name" TEXT,
		"description" TEXT,
		"visibility" TEXT,
		"owner_id" TEXT,
		"co_owner_ids" TEXT,
		"moderator_ids" TEXT,
		"key_required" INTEGER,
		"key" TEXT,
		"prefix" TEXT,
		"suffix" TEXT,
		"rules" TEXT,
		"links" TEXT,
		"moderation" TEXT
	);
	CREATE TABLE IF NOT EXISTS guild_configs (
		"guild_id" TEXT NOT NULL PRIMARY KEY,
		"name" TEXT,
		"admin_role_ids" TEXT,
		"link_role_ids" TEXT
	);`
	_, err := db.Exec(schema)
	return err
}

// channelRow is the flat sqlx image of one global channel record.
type channelRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Description  string `db:"description"`
	Visibility   string `db:"visibility"`
	OwnerID      string `db:"owner_id"`
	CoOwnerIDs   string `db:"co_owner_ids"`
	ModeratorIDs string `db:"moderator_ids"`
	KeyRequired  bool   `db:"key_required"`
	Key          string `db:"key"`
	Prefix       string `db:"prefix"`
	Suffix       string `db:"suffix"`
	Rules        string `db:"rules"`
	Links        string `db:"links"`
	Moderation   string `db:"moderation"`
}

// ChannelStore persists the global channel registry in sqlite.
type ChannelStore struct {
	db *sqlx.DB
}

func NewChannelStore(db *sqlx.DB) *ChannelStore {
	return &ChannelStore{db: db}
}

// SaveChannels writes the full registry in one transaction. There are
// no partial updates: the registry saves everything on every commit.
func (s *ChannelStore) SaveChannels(channels []*model.GlobalChannel) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM global_channels`); err != nil {
		tx.Rollback()
		return err
	}
	insert := `INSERT INTO global_channels
		(id, name, description, visibility, owner_id, co_owner_ids, moderator_ids,
		 key_required, key, prefix, suffix, rules, links, moderation)
		VALUES (:id, :name, :description, :visibility, :owner_id, :co_owner_ids, :moderator_ids,
		 :key_required, :key, :prefix, :suffix, :rules, :links, :moderation)`
	for _, ch := range channels {
		row, err := rowFromChannel(ch)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.NamedExec(insert, row); err != nil {
			tx.Rollback()
			return fmt.Errorf("saving global channel %s: %w", ch.ID, err)
		}
	}
	return tx.Commit()
}

// LoadChannels reads every persisted global channel.
func (s *ChannelStore) LoadChannels() ([]*model.GlobalChannel, error) {
	var rows []channelRow
	if err := s.db.Select(&rows, `SELECT * FROM global_channels`); err != nil {
		return nil, err
	}
	channels := make([]*model.GlobalChannel, 0, len(rows))
	for _, row := range rows {
		ch, err := channelFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("loading global channel %s: %w", row.ID, err)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func rowFromChannel(ch *model.GlobalChannel) (channelRow, error) {
	row := channelRow{
		ID:          ch.ID,
		Name:        ch.Name,
		Description: ch.Description,
		Visibility:  ch.Visibility,
		OwnerID:     ch.OwnerID,
		KeyRequired: ch.KeyRequired,
		Key:         ch.Key,
	}
	var err error
	if row.CoOwnerIDs, err = marshalJSON(ch.CoOwnerIDs); err != nil {
		return channelRow{}, err
	}
	if row.ModeratorIDs, err = marshalJSON(ch.ModeratorIDs); err != nil {
		return channelRow{}, err
	}
	if row.Prefix, err = marshalJSON(ch.Prefix); err != nil {
		return channelRow{}, err
	}
	if row.Suffix, err = marshalJSON(ch.Suffix); err != nil {
		return channelRow{}, err
	}
	if row.Rules, err = marshalJSON(ch.Rules); err != nil {
		return channelRow{}, err
	}
	if row.Links, err = marshalJSON(ch.Links); err != nil {
		return channelRow{}, err
	}
	if row.Moderation, err = marshalJSON(ch.Moderation); err != nil {
		return channelRow{}, err
	}
	return row, nil
}

func marshalJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalJSON(src string, dst interface{}) error {
	if src == "" {
		return nil
	}
	return json.Unmarshal([]byte(src), dst)
}

func channelFromRow(row channelRow) (*model.GlobalChannel, error) {
	ch := &model.GlobalChannel{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Visibility:  row.Visibility,
		OwnerID:     row.OwnerID,
		KeyRequired: row.KeyRequired,
		Key:         row.Key,
	}
	for _, step := range []struct {
		src string
		dst interface{}
	}{
		{row.CoOwnerIDs, &ch.CoOwnerIDs},
		{row.ModeratorIDs, &ch.ModeratorIDs},
		{row.Prefix, &ch.Prefix},
		{row.Suffix, &ch.Suffix},
		{row.Rules, &ch.Rules},
		{row.Links, &ch.Links},
		{row.Moderation, &ch.Moderation},
	} {
		if err := unmarshalJSON(step.src, step.dst); err != nil {
			return nil, err
		}
	}
	if ch.Links == nil {
		ch.Links = make(map[string]string)
	}
	if ch.Moderation == nil {
		ch.Moderation = make(map[string]*model.CommunityModeration)
	}
	return ch, nil
}
