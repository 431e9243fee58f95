package chat

import "time"

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Mood is the agent's emotional marker attached to its messages.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodExcited  Mood = "excited"
	MoodConfused Mood = "confused"
	MoodThinking Mood = "thinking"
	MoodSad      Mood = "sad"
)

// Profile holds the user's onboarding answers. Only Name is required;
// Hobbies is free text with comma-separated interests.
type Profile struct {
	Name           string `json:"name"`
	Hobbies        string `json:"hobbies"`
	Favorites      string `json:"favorites"`
	AdditionalInfo string `json:"additionalInfo"`
}

// Message is a single chat entry. Mood is set on agent messages only.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Mood      Mood      `json:"mood,omitempty"`
}

// Session is the client-cached conversation context. SessionID is issued by
// the remote service and treated as opaque; it is immutable once set.
// Messages preserves insertion order and is append-only.
type Session struct {
	SessionID   string    `json:"sessionId"`
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"timestamp"`
}

// NewUserMessage creates a user message stamped with the given id.
func NewUserMessage(id int64, text string) Message {
	return Message{
		ID:        id,
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	}
}

// NewAgentMessage creates an agent message stamped with the given id and mood.
func NewAgentMessage(id int64, text string, mood Mood) Message {
	if mood == "" {
		mood = MoodHappy
	}
	return Message{
		ID:        id,
		Text:      text,
		Sender:    SenderAgent,
		Timestamp: time.Now(),
		Mood:      mood,
	}
}
