package globalchat

import (
	"fmt"
	"sync"

	"globalchat-bot/model"

	"github.com/google/uuid"
)

// Registry is the durable store of global channels plus the reverse
// index from local channel id to owning global channel. All maps are
// shared between event handlers running concurrently and are guarded
// by a single RWMutex.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]*model.GlobalChannel
	byLocal  map[string]string
	store    Store
}

// NewRegistry loads every persisted channel from the store and builds
// the local-channel index.
func NewRegistry(store Store) (*Registry, error) {
	r := &Registry{
		channels: make(map[string]*model.GlobalChannel),
		byLocal:  make(map[string]string),
		store:    store,
	}
	channels, err := store.LoadChannels()
	if err != nil {
		return nil, fmt.Errorf("loading global channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Links == nil {
			ch.Links = make(map[string]string)
		}
		if ch.Moderation == nil {
			ch.Moderation = make(map[string]*model.CommunityModeration)
		}
		r.channels[ch.ID] = ch
		for _, localID := range ch.Links {
			r.byLocal[localID] = ch.ID
		}
	}
	return r, nil
}

// CreateParams carries the caller-supplied fields for a new channel.
type CreateParams struct {
	Name        string
	Description string
	Visibility  string
	KeyRequired bool
	Key         string
	OwnerID     string
	Prefix      model.OptionalText
	Suffix      model.OptionalText
}

// Create registers a new global channel, persists the registry and
// returns the full record.
func (r *Registry) Create(p CreateParams) (*model.GlobalChannel, error) {
	ch := &model.GlobalChannel{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Description: p.Description,
		Visibility:  p.Visibility,
		KeyRequired: p.KeyRequired,
		Key:         p.Key,
		OwnerID:     p.OwnerID,
		Prefix:      p.Prefix,
		Suffix:      p.Suffix,
		Links:       make(map[string]string),
		Moderation:  make(map[string]*model.CommunityModeration),
	}
	if ch.Visibility == "" {
		ch.Visibility = model.VisibilityPublic
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[ch.ID] = ch
	if err := r.saveLocked(); err != nil {
		return nil, err
	}
	return ch, nil
}

// Get returns a detached copy of the channel with the given id. The
// second return is false when no such channel exists. Callers hold no
// lock, so they never see the live record Update mutates.
func (r *Registry) Get(channelID string) (*model.GlobalChannel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[channelID]
	if !ok {
		return nil, false
	}
	return ch.Clone(), true
}

// Delete removes the channel record and its link index entries.
// Deleting an absent channel is a no-op. Notification of linked
// channels is the engine's job and happens before this call.
func (r *Registry) Delete(channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	for _, localID := range ch.Links {
		delete(r.byLocal, localID)
	}
	delete(r.channels, channelID)
	return r.saveLocked()
}

// ListByOwnerOrCoOwner returns detached copies of every channel the
// user owns or co-owns.
func (r *Registry) ListByOwnerOrCoOwner(userID string) []*model.GlobalChannel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.GlobalChannel
	for _, ch := range r.channels {
		if ch.OwnerID == userID {
			out = append(out, ch.Clone())
			continue
		}
		for _, id := range ch.CoOwnerIDs {
			if id == userID {
				out = append(out, ch.Clone())
				break
			}
		}
	}
	return out
}

// Update runs fn against the channel under the registry write lock and
// persists the whole registry once afterwards, so a batch of edits
// commits as a single write. fn returning an error aborts the persist.
func (r *Registry) Update(channelID string, fn func(*model.GlobalChannel) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	if err := fn(ch); err != nil {
		return err
	}
	return r.saveLocked()
}

// Save persists the registry. Edits made through Update are already
// persisted; this exists for callers batching direct mutations.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked()
}

func (r *Registry) saveLocked() error {
	channels := make([]*model.GlobalChannel, 0, len(r.channels))
	for _, ch := range r.channels {
		channels = append(channels, ch)
	}
	if err := r.store.SaveChannels(channels); err != nil {
		return fmt.Errorf("saving global channels: %w", err)
	}
	return nil
}
