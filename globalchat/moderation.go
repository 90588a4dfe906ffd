package globalchat

import (
	"time"

	"globalchat-bot/model"
)

// Moderation verbs. Every operation validates the acting user's tier
// before touching state and returns a descriptive reason on rejection
// so the command layer can tell the user why.

// The verbs below split into a public wrapper and a *Locked variant
// running inside a registry update, so the session wizards can combine
// several of them into one persisted write.

// Kick unlinks a community from the channel without banning it; the
// community may link again later.
func (e *Engine) Kick(channelID, actorID, communityID string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		return e.kickLocked(ch, actorID, communityID)
	})
}

func (e *Engine) kickLocked(ch *model.GlobalChannel, actorID, communityID string) error {
	if !ch.HasModerateAccess(actorID) {
		return ErrNoAccess
	}
	if _, ok := ch.Links[communityID]; !ok {
		return ErrNotLinked
	}
	e.registry.unlinkCommunityLocked(ch, communityID)
	return nil
}

// Ban blocks a community from linking to the channel. An active link
// is severed in the same call: ban always implies unlink, so there is
// never a window where a banned community keeps relaying.
func (e *Engine) Ban(channelID, actorID, communityID string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		return e.banLocked(ch, actorID, communityID)
	})
}

func (e *Engine) banLocked(ch *model.GlobalChannel, actorID, communityID string) error {
	if !ch.HasModerateAccess(actorID) {
		return ErrNoAccess
	}
	ch.ModerationFor(communityID).Banned = true
	e.registry.unlinkCommunityLocked(ch, communityID)
	return nil
}

// Unban lifts a ban. The community has to link again by itself.
func (e *Engine) Unban(channelID, actorID, communityID string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		if !ch.HasModerateAccess(actorID) {
			return ErrNoAccess
		}
		m, ok := ch.Moderation[communityID]
		if !ok || !m.Banned {
			return ErrNotBanned
		}
		m.Banned = false
		return nil
	})
}

// Warn appends a warning record for the community.
func (e *Engine) Warn(channelID, actorID, communityID, reason string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		return e.warnLocked(ch, actorID, communityID, reason)
	})
}

func (e *Engine) warnLocked(ch *model.GlobalChannel, actorID, communityID, reason string) error {
	if !ch.HasModerateAccess(actorID) {
		return ErrNoAccess
	}
	m := ch.ModerationFor(communityID)
	m.Warnings = append(m.Warnings, model.Warning{
		Reason:   reason,
		IssuerID: actorID,
		IssuedAt: time.Now().UnixMilli(),
	})
	return nil
}

// Unwarn removes the community's most recent warning.
func (e *Engine) Unwarn(channelID, actorID, communityID string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		if !ch.HasModerateAccess(actorID) {
			return ErrNoAccess
		}
		m, ok := ch.Moderation[communityID]
		if !ok || len(m.Warnings) == 0 {
			return ErrNoWarnings
		}
		m.Warnings = m.Warnings[:len(m.Warnings)-1]
		return nil
	})
}

// Mute suppresses outbound relay from the community for the given
// duration; zero or negative means permanent. The link stays up and
// moderation commands keep working while muted.
func (e *Engine) Mute(channelID, actorID, communityID string, d time.Duration) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		return e.muteLocked(ch, actorID, communityID, d)
	})
}

func (e *Engine) muteLocked(ch *model.GlobalChannel, actorID, communityID string, d time.Duration) error {
	if !ch.HasModerateAccess(actorID) {
		return ErrNoAccess
	}
	if _, ok := ch.Links[communityID]; !ok {
		return ErrNotLinked
	}
	until := model.MutePermanent
	if d > 0 {
		until = time.Now().Add(d).UnixMilli()
	}
	ch.ModerationFor(communityID).MuteUntil = &until
	return nil
}

// Unmute clears a mute; relay resumes immediately without re-linking.
func (e *Engine) Unmute(channelID, actorID, communityID string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		if !ch.HasModerateAccess(actorID) {
			return ErrNoAccess
		}
		m, ok := ch.Moderation[communityID]
		if !ok || m.MuteUntil == nil {
			return ErrNotMuted
		}
		m.MuteUntil = nil
		return nil
	})
}

// AddCoOwner and AddModerator grant tiers; duplicates are idempotent
// no-ops. Only the owner hands out co-ownership.
func (e *Engine) AddCoOwner(channelID, actorID, userID string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		if ch.Tier(actorID) != model.TierOwner {
			return ErrOwnerOnly
		}
		for _, id := range ch.CoOwnerIDs {
			if id == userID {
				return nil
			}
		}
		ch.CoOwnerIDs = append(ch.CoOwnerIDs, userID)
		return nil
	})
}

func (e *Engine) AddModerator(channelID, actorID, userID string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		if !ch.HasManageAccess(actorID) {
			return ErrNoAccess
		}
		for _, id := range ch.ModeratorIDs {
			if id == userID {
				return nil
			}
		}
		ch.ModeratorIDs = append(ch.ModeratorIDs, userID)
		return nil
	})
}

// SetRules replaces the channel rules wholesale, preserving order.
func (e *Engine) SetRules(channelID, actorID string, rules []string) error {
	return e.registry.Update(channelID, func(ch *model.GlobalChannel) error {
		if !ch.HasManageAccess(actorID) {
			return ErrNoAccess
		}
		ch.Rules = rules
		return nil
	})
}
