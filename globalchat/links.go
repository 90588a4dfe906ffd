package globalchat

import "globalchat-bot/model"

// Link associates a community's local channel with a global channel.
// It fails when the channel does not exist, the community is banned,
// the key check fails, or the local channel already belongs to a
// different global channel. Re-linking the exact same pair is an
// idempotent no-op.
func (r *Registry) Link(channelID, communityID, localChannelID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	if ch.IsBanned(communityID) {
		return ErrBanned
	}
	if ch.KeyRequired {
		if key == "" {
			return ErrKeyRequired
		}
		if key != ch.Key {
			return ErrWrongKey
		}
	}
	if existing, linked := r.byLocal[localChannelID]; linked {
		if existing == channelID && ch.Links[communityID] == localChannelID {
			return nil
		}
		return ErrAlreadyLinked
	}
	// One local channel per community: a re-link from the same guild
	// replaces its previous channel.
	if prev, ok := ch.Links[communityID]; ok {
		delete(r.byLocal, prev)
	}
	ch.Links[communityID] = localChannelID
	r.byLocal[localChannelID] = channelID
	return r.saveLocked()
}

// Unlink removes the community's link. It fails when the pair is not
// currently linked.
func (r *Registry) Unlink(communityID, localChannelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channelID, ok := r.byLocal[localChannelID]
	if !ok {
		return ErrNotLinked
	}
	ch := r.channels[channelID]
	if ch.Links[communityID] != localChannelID {
		return ErrNotLinked
	}
	delete(ch.Links, communityID)
	delete(r.byLocal, localChannelID)
	return r.saveLocked()
}

// unlinkCommunityLocked severs a community's link without a save,
// for callers already holding the write lock (ban auto-unlink).
func (r *Registry) unlinkCommunityLocked(ch *model.GlobalChannel, communityID string) {
	if localID, ok := ch.Links[communityID]; ok {
		delete(ch.Links, communityID)
		delete(r.byLocal, localID)
	}
}

// linksSnapshot copies the link map of a channel for lock-free
// iteration during fan-out.
func (r *Registry) linksSnapshot(channelID string) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(ch.Links))
	for communityID, localID := range ch.Links {
		out[communityID] = localID
	}
	return out
}

// FindByLocalChannel resolves the global channel a local channel is
// linked into. This is the hot lookup on every inbound event and is a
// single index read, not a scan. The result is a detached copy: relay
// runs on a consistent snapshot while moderation updates the record.
func (r *Registry) FindByLocalChannel(localChannelID string) (*model.GlobalChannel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channelID, ok := r.byLocal[localChannelID]
	if !ok {
		return nil, false
	}
	ch, ok := r.channels[channelID]
	if !ok {
		return nil, false
	}
	return ch.Clone(), true
}
