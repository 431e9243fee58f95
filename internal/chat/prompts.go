package chat

import (
	"fmt"
	"math/rand"
)

// Canned agent lines used when the remote service cannot answer.
const (
	FallbackReply    = "Oops! I think I dropped my brain! 🤯 Let's try that again!"
	NoSessionReply   = "I'm having trouble connecting to my brain right now. Let's try again!"
	SessionEndedText = "Session ended. Feel free to start a new conversation anytime!"
)

// FallbackGreeting is the locally generated first message used when
// session creation fails.
func FallbackGreeting(name string) string {
	return fmt.Sprintf("Hey %s! I'm your buddy! Let's chat!", name)
}

// ProfileUpdatedText confirms a settings edit in the agent's voice.
func ProfileUpdatedText(name string) string {
	return fmt.Sprintf("Thanks for updating your profile, %s! 😊 I've saved your new information.", name)
}

var starterPrompts = []string{
	"What's something that made you smile recently?",
	"If you could travel anywhere right now, where would you go?",
	"What's your favorite way to spend a lazy Sunday?",
	"What's something you're really proud of?",
	"What's the best meal you've had recently?",
	"What's a book or movie that really impacted you?",
	"What's something you're looking forward to?",
	"What's a hobby you've always wanted to try?",
	"What's your favorite season and why?",
	"What's something that always cheers you up?",
}

// RandomPrompt returns a conversation starter for the suggest command.
func RandomPrompt() string {
	return starterPrompts[rand.Intn(len(starterPrompts))]
}
