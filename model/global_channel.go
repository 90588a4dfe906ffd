package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Channel visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// MutePermanent is the stored expiry for a mute with no end date.
const MutePermanent int64 = 0

// OptionalText distinguishes "never set" from "explicitly blank" for
// presentation fields like the relay prefix and suffix. An unset value
// serializes as JSON null and means the system default applies.
type OptionalText struct {
	Set   bool
	Value string
}

// Text returns the configured value, or def when the field is unset.
func (o OptionalText) Text(def string) string {
	if !o.Set {
		return def
	}
	return o.Value
}

func (o OptionalText) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = OptionalText{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = OptionalText{Set: true, Value: s}
	return nil
}

// Warning is one entry in a community's warning history on a channel.
type Warning struct {
	Reason   string `json:"reason"`
	IssuerID string `json:"issuer_id"`
	IssuedAt int64  `json:"issued_at"`
}

// CommunityModeration holds the per-source-community moderation state
// of one global channel. MuteUntil is nil when the community is not
// muted, MutePermanent for a mute with no expiry, and an epoch-millis
// timestamp otherwise.
type CommunityModeration struct {
	Banned    bool      `json:"banned"`
	MuteUntil *int64    `json:"mute_until,omitempty"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// GlobalChannel is the cross-community channel aggregate. One local
// channel per community may be linked into it; messages posted in any
// linked channel are relayed to all the others.
type GlobalChannel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`

	OwnerID      string   `json:"owner_id"`
	CoOwnerIDs   []string `json:"co_owner_ids"`
	ModeratorIDs []string `json:"moderator_ids"`

	KeyRequired bool   `json:"key_required"`
	Key         string `json:"key,omitempty"`

	Prefix OptionalText `json:"prefix"`
	Suffix OptionalText `json:"suffix"`

	Rules []string `json:"rules,omitempty"`

	// Links maps a community (guild) id to the one local channel it
	// has linked into this global channel.
	Links map[string]string `json:"links"`

	// Moderation maps a community id to its moderation state.
	Moderation map[string]*CommunityModeration `json:"moderation"`
}

// Clone returns a deep copy of the channel, detached from the shared
// record the registry mutates under its lock. Readers outside the lock
// must work on a clone, never the live pointer.
func (c *GlobalChannel) Clone() *GlobalChannel {
	out := *c
	out.CoOwnerIDs = append([]string(nil), c.CoOwnerIDs...)
	out.ModeratorIDs = append([]string(nil), c.ModeratorIDs...)
	out.Rules = append([]string(nil), c.Rules...)
	out.Links = make(map[string]string, len(c.Links))
	for communityID, localID := range c.Links {
		out.Links[communityID] = localID
	}
	out.Moderation = make(map[string]*CommunityModeration, len(c.Moderation))
	for communityID, m := range c.Moderation {
		mc := &CommunityModeration{
			Banned:   m.Banned,
			Warnings: append([]Warning(nil), m.Warnings...),
		}
		if m.MuteUntil != nil {
			until := *m.MuteUntil
			mc.MuteUntil = &until
		}
		out.Moderation[communityID] = mc
	}
	return &out
}

// Tier labels, strictly ordered owner > co-owner > moderator > member.
const (
	TierOwner     = "owner"
	TierCoOwner   = "co-owner"
	TierModerator = "moderator"
	TierMember    = "member"
)

// Tier returns the capability tier of userID on this channel.
func (c *GlobalChannel) Tier(userID string) string {
	if userID == c.OwnerID {
		return TierOwner
	}
	for _, id := range c.CoOwnerIDs {
		if id == userID {
			return TierCoOwner
		}
	}
	for _, id := range c.ModeratorIDs {
		if id == userID {
			return TierModerator
		}
	}
	return TierMember
}

// HasManageAccess reports whether userID may manage the channel
// (edit, delete, rules). Owner and co-owners only.
func (c *GlobalChannel) HasManageAccess(userID string) bool {
	t := c.Tier(userID)
	return t == TierOwner || t == TierCoOwner
}

// HasModerateAccess reports whether userID may run moderation actions
// against linked communities.
func (c *GlobalChannel) HasModerateAccess(userID string) bool {
	return c.HasManageAccess(userID) || c.Tier(userID) == TierModerator
}

// ModerationFor returns the moderation state for a community, creating
// an empty entry on first use.
func (c *GlobalChannel) ModerationFor(communityID string) *CommunityModeration {
	if c.Moderation == nil {
		c.Moderation = make(map[string]*CommunityModeration)
	}
	m, ok := c.Moderation[communityID]
	if !ok {
		m = &CommunityModeration{}
		c.Moderation[communityID] = m
	}
	return m
}

// IsBanned reports whether a community is banned from this channel.
func (c *GlobalChannel) IsBanned(communityID string) bool {
	m, ok := c.Moderation[communityID]
	return ok && m.Banned
}

// IsMuted reports whether a community is muted at the given instant.
// An expired mute counts as not muted; callers do not need to clear it.
func (c *GlobalChannel) IsMuted(communityID string, now time.Time) bool {
	m, ok := c.Moderation[communityID]
	if !ok || m.MuteUntil == nil {
		return false
	}
	if *m.MuteUntil == MutePermanent {
		return true
	}
	return now.UnixMilli() < *m.MuteUntil
}
