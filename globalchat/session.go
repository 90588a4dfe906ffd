package globalchat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"globalchat-bot/model"
	"globalchat-bot/utils"
)

// Wizard actions driven over DM replies.
const (
	ActionEdit   = "edit"
	ActionMute   = "mute"
	ActionBan    = "ban"
	ActionWarn   = "warn"
	ActionKick   = "kick"
	ActionUnmute = "unmute"
	ActionUnban  = "unban"
	ActionUnwarn = "unwarn"
)

const sessionTTL = 10 * time.Minute

// Session is the transient per-operator wizard state: which channel is
// being managed, which action, which step is awaited, and the fields
// collected so far.
type Session struct {
	OperatorID string
	ChannelID  string
	Action     string
	Step       int
	Fields     map[string]string
	StartedAt  time.Time
}

// SessionManager owns all live management sessions, keyed by operator
// id. Starting a new wizard for an operator overwrites any prior
// incomplete session; sessions never survive a restart.
type SessionManager struct {
	mu       sync.Mutex
	engine   *Engine
	sessions map[string]*Session
}

func NewSessionManager(engine *Engine) *SessionManager {
	return &SessionManager{
		engine:   engine,
		sessions: make(map[string]*Session),
	}
}

// Start begins a wizard for the operator against a channel, after
// checking the operator holds the tier the action needs. It returns
// the prompt for the first step.
func (m *SessionManager) Start(operatorID, channelID, action string) (string, error) {
	ch, ok := m.engine.registry.Get(channelID)
	if !ok {
		return "", ErrChannelNotFound
	}
	switch action {
	case ActionEdit:
		if !ch.HasManageAccess(operatorID) {
			return "", ErrNoAccess
		}
	case ActionMute, ActionBan, ActionWarn, ActionKick, ActionUnmute, ActionUnban, ActionUnwarn:
		if !ch.HasModerateAccess(operatorID) {
			return "", ErrNoAccess
		}
	default:
		return "", fmt.Errorf("unknown management action %q", action)
	}

	sess := &Session{
		OperatorID: operatorID,
		ChannelID:  channelID,
		Action:     action,
		Fields:     make(map[string]string),
		StartedAt:  time.Now(),
	}
	m.mu.Lock()
	m.sessions[operatorID] = sess
	m.mu.Unlock()
	return sess.prompt(), nil
}

// Active reports whether the operator has a live session.
func (m *SessionManager) Active(operatorID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[operatorID]
	if ok && time.Since(sess.StartedAt) > sessionTTL {
		delete(m.sessions, operatorID)
		return false
	}
	return ok
}

// Cancel drops the operator's session, if any.
func (m *SessionManager) Cancel(operatorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, operatorID)
}

// Sweep expires abandoned sessions; driven by the bot scheduler.
func (m *SessionManager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if time.Since(sess.StartedAt) > sessionTTL {
			delete(m.sessions, id)
		}
	}
}

// Advance feeds one free-text reply into the operator's wizard. A
// reply that fails the current step's validation re-prompts without
// advancing; the final step commits everything as one update and
// clears the session.
func (m *SessionManager) Advance(operatorID, input string) (string, bool, error) {
	m.mu.Lock()
	sess, ok := m.sessions[operatorID]
	if ok && time.Since(sess.StartedAt) > sessionTTL {
		delete(m.sessions, operatorID)
		ok = false
	}
	if !ok {
		m.mu.Unlock()
		return "", false, ErrNoSession
	}

	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "cancel") {
		delete(m.sessions, operatorID)
		m.mu.Unlock()
		return "Management session cancelled.", true, nil
	}

	field, errMsg := sess.validate(input)
	if errMsg != "" {
		m.mu.Unlock()
		return errMsg + "\n" + sess.prompt(), false, nil
	}
	if field != "" {
		sess.Fields[field] = input
	}
	sess.Step++

	if sess.Step < sess.stepCount() {
		prompt := sess.prompt()
		m.mu.Unlock()
		return prompt, false, nil
	}

	delete(m.sessions, operatorID)
	m.mu.Unlock()
	if err := m.commit(sess); err != nil {
		return "", true, err
	}
	return "Done. Changes have been applied.", true, nil
}

func (s *Session) stepCount() int {
	switch s.Action {
	case ActionEdit:
		return 4
	case ActionMute:
		return 3
	case ActionBan, ActionWarn, ActionKick:
		return 2
	default: // unmute, unban, unwarn
		return 1
	}
}

// validate checks input against the expected shape of the current
// step. It returns the field name to record (empty to discard, e.g.
// on skip) and a non-empty message when the input is rejected.
func (s *Session) validate(input string) (field, errMsg string) {
	skip := strings.EqualFold(input, "skip")

	if s.Action == ActionEdit {
		switch s.Step {
		case 0:
			if skip {
				return "", ""
			}
			if input == "" {
				return "", "The name cannot be empty."
			}
			return "name", ""
		case 1:
			if skip {
				return "", ""
			}
			return "description", ""
		case 2:
			if skip {
				return "", ""
			}
			if input != model.VisibilityPublic && input != model.VisibilityPrivate {
				return "", "Visibility must be `public`, `private` or `skip`."
			}
			return "visibility", ""
		case 3:
			if skip {
				return "", ""
			}
			return "key", ""
		}
		return "", ""
	}

	// Moderation wizards: target -> [duration] -> reason.
	switch s.Step {
	case 0:
		if !utils.IsSnowflake(input) {
			return "", "That does not look like a server id."
		}
		return "target", ""
	case 1:
		if s.Action == ActionMute {
			if _, _, err := utils.ParseMuteDuration(input); err != nil {
				return "", "Duration must look like `30m`, `2h`, `7d` or `forever`."
			}
			return "duration", ""
		}
		return "reason", ""
	default:
		return "reason", ""
	}
}

func (s *Session) prompt() string {
	if s.Action == ActionEdit {
		switch s.Step {
		case 0:
			return "Editing the global channel. Send the new **name**, `skip` to keep it, or `cancel`."
		case 1:
			return "Send the new **description**, or `skip`."
		case 2:
			return "Send the new **visibility** (`public` or `private`), or `skip`."
		case 3:
			return "Send the new **key** (`none` to remove it), or `skip`."
		}
	}
	switch s.Step {
	case 0:
		return fmt.Sprintf("Which server should be %sed? Send its id, or `cancel`.", s.Action)
	case 1:
		if s.Action == ActionMute {
			return "For how long? (`30m`, `2h`, `7d` or `forever`)"
		}
		return "What is the reason?"
	default:
		return "What is the reason?"
	}
}

// commit applies the accumulated fields as a single persisted update.
func (m *SessionManager) commit(s *Session) error {
	target := s.Fields["target"]
	reason := s.Fields["reason"]

	switch s.Action {
	case ActionEdit:
		return m.engine.registry.Update(s.ChannelID, func(ch *model.GlobalChannel) error {
			if !ch.HasManageAccess(s.OperatorID) {
				return ErrNoAccess
			}
			if v, ok := s.Fields["name"]; ok {
				ch.Name = v
			}
			if v, ok := s.Fields["description"]; ok {
				ch.Description = v
			}
			if v, ok := s.Fields["visibility"]; ok {
				ch.Visibility = v
			}
			if v, ok := s.Fields["key"]; ok {
				if strings.EqualFold(v, "none") {
					ch.KeyRequired = false
					ch.Key = ""
				} else {
					ch.KeyRequired = true
					ch.Key = v
				}
			}
			return nil
		})
	case ActionMute:
		d, forever, err := utils.ParseMuteDuration(s.Fields["duration"])
		if err != nil {
			return err
		}
		if forever {
			d = 0
		}
		return m.engine.registry.Update(s.ChannelID, func(ch *model.GlobalChannel) error {
			if err := m.engine.muteLocked(ch, s.OperatorID, target, d); err != nil {
				return err
			}
			return m.engine.warnLocked(ch, s.OperatorID, target, "muted: "+reason)
		})
	case ActionBan:
		return m.engine.registry.Update(s.ChannelID, func(ch *model.GlobalChannel) error {
			if err := m.engine.banLocked(ch, s.OperatorID, target); err != nil {
				return err
			}
			return m.engine.warnLocked(ch, s.OperatorID, target, "banned: "+reason)
		})
	case ActionWarn:
		return m.engine.Warn(s.ChannelID, s.OperatorID, target, reason)
	case ActionKick:
		return m.engine.registry.Update(s.ChannelID, func(ch *model.GlobalChannel) error {
			if err := m.engine.kickLocked(ch, s.OperatorID, target); err != nil {
				return err
			}
			if reason != "" {
				return m.engine.warnLocked(ch, s.OperatorID, target, "kicked: "+reason)
			}
			return nil
		})
	case ActionUnmute:
		return m.engine.Unmute(s.ChannelID, s.OperatorID, target)
	case ActionUnban:
		return m.engine.Unban(s.ChannelID, s.OperatorID, target)
	case ActionUnwarn:
		return m.engine.Unwarn(s.ChannelID, s.OperatorID, target)
	}
	return fmt.Errorf("unknown management action %q", s.Action)
}
