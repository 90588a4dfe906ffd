package globalchat

import (
	"errors"
	"fmt"
	"log"
	"time"

	"globalchat-bot/model"
)

var ErrNoPendingDelete = errors.New("no pending deletion to confirm")

// RequestDelete starts deletion of a global channel. An owner deletes
// immediately. A co-owner never deletes directly: the owner is sent a
// confirmation request and only the owner's confirm performs the
// deletion. Returns whether the channel was actually deleted.
func (e *Engine) RequestDelete(channelID, actorID string) (bool, error) {
	ch, ok := e.registry.Get(channelID)
	if !ok {
		return false, ErrChannelNotFound
	}
	switch ch.Tier(actorID) {
	case model.TierOwner:
		return true, e.deleteChannel(channelID)
	case model.TierCoOwner:
		e.confirmMu.Lock()
		e.pendingDeletes[channelID] = deleteRequest{RequesterID: actorID, RequestedAt: time.Now()}
		e.confirmMu.Unlock()
		if e.notifier != nil {
			if err := e.notifier.RequestDeleteConfirmation(ch.OwnerID, ch.ID, ch.Name, actorID); err != nil {
				log.Printf("global chat: delete confirmation DM to %s failed: %v", ch.OwnerID, err)
			}
		}
		return false, nil
	default:
		return false, ErrNoAccess
	}
}

// ConfirmDelete completes a co-owner-initiated deletion. Only the
// owner may confirm, and only while the request is still pending.
func (e *Engine) ConfirmDelete(channelID, actorID string) error {
	ch, ok := e.registry.Get(channelID)
	if !ok {
		return ErrChannelNotFound
	}
	if actorID != ch.OwnerID {
		return ErrOwnerOnly
	}
	e.confirmMu.Lock()
	req, ok := e.pendingDeletes[channelID]
	if ok && time.Since(req.RequestedAt) > deleteConfirmTTL {
		delete(e.pendingDeletes, channelID)
		ok = false
	}
	if ok {
		delete(e.pendingDeletes, channelID)
	}
	e.confirmMu.Unlock()
	if !ok {
		return ErrNoPendingDelete
	}
	if err := e.deleteChannel(channelID); err != nil {
		return err
	}
	e.notifyRequester(req.RequesterID, fmt.Sprintf("The owner confirmed the deletion of **%s**; the channel is gone.", ch.Name))
	return nil
}

// DeclineDelete drops a pending co-owner deletion request, leaving the
// channel intact.
func (e *Engine) DeclineDelete(channelID, actorID string) error {
	ch, ok := e.registry.Get(channelID)
	if !ok {
		return ErrChannelNotFound
	}
	if actorID != ch.OwnerID {
		return ErrOwnerOnly
	}
	e.confirmMu.Lock()
	req, ok := e.pendingDeletes[channelID]
	delete(e.pendingDeletes, channelID)
	e.confirmMu.Unlock()
	if ok {
		e.notifyRequester(req.RequesterID, fmt.Sprintf("The owner declined the deletion of **%s**; the channel stays.", ch.Name))
	}
	return nil
}

// notifyRequester tells the co-owner who asked for a deletion how the
// owner resolved it, best effort.
func (e *Engine) notifyRequester(requesterID, message string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.NotifyUser(requesterID, message); err != nil {
		log.Printf("global chat: deletion outcome DM to %s failed: %v", requesterID, err)
	}
}

// HasPendingDelete reports whether a co-owner deletion request is
// awaiting owner confirmation.
func (e *Engine) HasPendingDelete(channelID string) bool {
	e.confirmMu.Lock()
	defer e.confirmMu.Unlock()
	req, ok := e.pendingDeletes[channelID]
	if ok && time.Since(req.RequestedAt) > deleteConfirmTTL {
		delete(e.pendingDeletes, channelID)
		return false
	}
	return ok
}

// deleteChannel notifies every linked channel that the global channel
// is going away, then purges the record. Notify first, purge second:
// once the record is gone there is no link table left to notify.
func (e *Engine) deleteChannel(channelID string) error {
	ch, ok := e.registry.Get(channelID)
	if !ok {
		return nil
	}
	farewell := fmt.Sprintf("The global channel **%s** has been deleted. This channel is no longer linked.", ch.Name)
	for _, localID := range e.registry.linksSnapshot(channelID) {
		if _, err := e.poster.Post(localID, "Global Chat", "", farewell); err != nil {
			log.Printf("global chat %s: farewell to channel %s failed: %v", ch.Name, localID, err)
		}
	}
	return e.registry.Delete(channelID)
}
