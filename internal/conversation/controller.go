package conversation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gennadis/buddychat/internal/chat"
	"github.com/gennadis/buddychat/internal/client"
)

// State is the controller's position in the session lifecycle.
type State string

const (
	StateOnboarding  State = "onboarding"
	StateSessionInit State = "session_init"
	StateActive      State = "active"
	StatePending     State = "pending"
	StateEnded       State = "ended"
)

// ProfileStore persists the onboarding profile across restarts.
type ProfileStore interface {
	Load() (chat.Profile, bool, error)
	Save(chat.Profile) error
}

// SessionStore persists the active session across restarts.
type SessionStore interface {
	Load() (chat.Session, bool, error)
	Save(chat.Session) error
	Clear() error
}

// AgentClient is the remote agent service.
type AgentClient interface {
	CreateSession(ctx context.Context, profile chat.Profile) (*client.CreateSessionResponse, error)
	SendTurn(ctx context.Context, sessionID, text string) (string, error)
	FetchHistory(ctx context.Context, sessionID string) ([]client.HistoryMessage, error)
}

// Controller owns the session identity, the message list and the pending
// state, and is the only place remote failures are turned into the canned
// in-conversation fallbacks. Nothing past this boundary ever sees an agent
// error. All operations run on the caller's goroutine; the pending guard
// serializes turns.
type Controller struct {
	profiles ProfileStore
	sessions SessionStore
	agent    AgentClient
	ids      *chat.IDGenerator

	state   State
	profile chat.Profile
	session chat.Session
}

// NewController wires the controller with its collaborators. Call Rehydrate
// before anything else to restore persisted state.
func NewController(profiles ProfileStore, sessions SessionStore, agent AgentClient) *Controller {
	return &Controller{
		profiles: profiles,
		sessions: sessions,
		agent:    agent,
		ids:      chat.NewIDGenerator(),
		state:    StateOnboarding,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Profile returns the current profile.
func (c *Controller) Profile() chat.Profile {
	return c.profile
}

// SessionID returns the server-issued session id, empty when absent.
func (c *Controller) SessionID() string {
	return c.session.SessionID
}

// Messages returns a copy of the message list in insertion order.
func (c *Controller) Messages() []chat.Message {
	out := make([]chat.Message, len(c.session.Messages))
	copy(out, c.session.Messages)
	return out
}

// Rehydrate restores profile and session from the stores. With a known
// session id it reconciles the message list against the server transcript;
// if that fails the session is cleared rather than left half-restored.
// The returned error covers storage access only, never the agent service.
func (c *Controller) Rehydrate(ctx context.Context) error {
	profile, ok, err := c.profiles.Load()
	if err != nil {
		return err
	}
	if !ok {
		c.state = StateOnboarding
		return nil
	}
	c.profile = profile
	c.state = StateSessionInit

	session, ok, err := c.sessions.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	c.session = session

	if c.session.SessionID == "" {
		// A session persisted before an id was issued: nothing to
		// reconcile remotely.
		c.state = StateActive
		return nil
	}

	history, err := c.agent.FetchHistory(ctx, c.session.SessionID)
	if err != nil {
		slog.Warn("history restore failed, clearing session", "error", err)
		c.clearSession()
		return nil
	}

	// The server transcript holds chat turns only, not the greeting; an
	// empty transcript means the locally persisted messages are already
	// complete. Server timestamps are not trusted, entries are restamped
	// to now.
	if len(history) > 0 {
		restored := make([]chat.Message, 0, len(history))
		for _, entry := range history {
			if entry.Type == "user" {
				restored = append(restored, chat.NewUserMessage(c.ids.Next(), entry.Content))
				continue
			}
			restored = append(restored, chat.NewAgentMessage(c.ids.Next(), entry.Content, chat.MoodHappy))
		}
		c.session.Messages = restored
		c.persist()
	}

	c.state = StateActive
	return nil
}

// StartFromOnboarding persists the completed profile and opens a server
// session. When session creation fails the conversation still starts with a
// locally generated greeting, but no session id: the first send will retry
// session creation.
func (c *Controller) StartFromOnboarding(ctx context.Context, profile chat.Profile) chat.Message {
	c.profile = profile
	if err := c.profiles.Save(profile); err != nil {
		slog.Error("failed to persist profile", "error", err)
	}
	c.state = StateSessionInit

	var greeting chat.Message
	resp, err := c.agent.CreateSession(ctx, profile)
	if err != nil {
		greeting = chat.NewAgentMessage(c.ids.Next(), chat.FallbackGreeting(profile.Name), chat.MoodHappy)
	} else {
		c.session.SessionID = resp.SessionID
		greeting = chat.NewAgentMessage(c.ids.Next(), resp.Message, chat.MoodExcited)
	}

	c.session.Messages = append(c.session.Messages, greeting)
	c.persist()
	c.state = StateActive
	return greeting
}

// SendUserMessage runs one turn: optimistic user append, remote call, agent
// reply. It is a no-op while a turn is already pending or when the text is
// blank. The reply is the canned fallback when the service is unreachable.
func (c *Controller) SendUserMessage(ctx context.Context, text string) (chat.Message, bool) {
	if c.state == StatePending || strings.TrimSpace(text) == "" {
		return chat.Message{}, false
	}

	userMsg := chat.NewUserMessage(c.ids.Next(), text)
	c.session.Messages = append(c.session.Messages, userMsg)
	c.persist()
	c.state = StatePending

	reply := c.resolveTurn(ctx, text)
	c.session.Messages = append(c.session.Messages, reply)
	c.persist()
	c.state = StateActive
	return reply, true
}

// resolveTurn produces the agent reply for one turn, retrying session
// creation once if no session id exists yet.
func (c *Controller) resolveTurn(ctx context.Context, text string) chat.Message {
	if c.session.SessionID == "" {
		resp, err := c.agent.CreateSession(ctx, c.profile)
		if err != nil {
			slog.Warn("session creation retry failed", "error", err)
			return chat.NewAgentMessage(c.ids.Next(), chat.NoSessionReply, chat.MoodConfused)
		}
		c.session.SessionID = resp.SessionID
		c.persist()
	}

	replyText, err := c.agent.SendTurn(ctx, c.session.SessionID, text)
	if err != nil {
		return chat.NewAgentMessage(c.ids.Next(), chat.FallbackReply, chat.MoodConfused)
	}
	return chat.NewAgentMessage(c.ids.Next(), replyText, chat.MoodHappy)
}

// UpdateProfile applies a settings edit. Only meaningful once a conversation
// exists; the session id and history are untouched.
func (c *Controller) UpdateProfile(profile chat.Profile) (chat.Message, bool) {
	if c.state != StateActive && c.state != StateEnded {
		return chat.Message{}, false
	}

	c.profile = profile
	if err := c.profiles.Save(profile); err != nil {
		slog.Error("failed to persist profile", "error", err)
	}

	confirm := chat.NewAgentMessage(c.ids.Next(), chat.ProfileUpdatedText(profile.Name), chat.MoodHappy)
	c.session.Messages = append(c.session.Messages, confirm)
	c.persist()
	return confirm, true
}

// EndSession clears the persisted and in-memory session. The returned notice
// is ephemeral UI feedback: it is deliberately not persisted. Calling it
// again is harmless.
func (c *Controller) EndSession() chat.Message {
	c.clearSession()
	c.state = StateEnded

	notice := chat.NewAgentMessage(c.ids.Next(), chat.SessionEndedText, chat.MoodHappy)
	c.session.Messages = append(c.session.Messages, notice)
	return notice
}

// SuggestPrompt returns a conversation starter.
func (c *Controller) SuggestPrompt() string {
	return chat.RandomPrompt()
}

func (c *Controller) clearSession() {
	if err := c.sessions.Clear(); err != nil {
		slog.Error("failed to clear session store", "error", err)
	}
	c.session = chat.Session{}
	c.state = StateSessionInit
}

// persist writes the session as it exists right now; mutations never
// interleave with the write.
func (c *Controller) persist() {
	if err := c.sessions.Save(c.session); err != nil {
		slog.Error("failed to persist session", "error", err)
	}
}
