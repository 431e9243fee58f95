package client

import (
	"strings"

	"github.com/gennadis/buddychat/internal/chat"
)

// The agent service builds the buddy persona from these fixed traits.
var defaultPersonalityTraits = []string{"friendly", "funny", "supportive"}

const noAdditionalInfo = "No additional info provided"

// OnboardingData is the profile as the agent service expects it.
type OnboardingData struct {
	Name              string   `json:"name"`
	FavoriteThing     string   `json:"favorite_thing"`
	Hobbies           []string `json:"hobbies"`
	PersonalityTraits []string `json:"personality_traits"`
	FunFacts          []string `json:"fun_facts"`
}

// NewOnboardingData maps a local profile onto the wire shape: free-text
// hobbies are split on commas and trimmed, additional info becomes a
// single fun fact or a literal placeholder when empty.
func NewOnboardingData(profile chat.Profile) OnboardingData {
	var hobbies []string
	for _, h := range strings.Split(profile.Hobbies, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hobbies = append(hobbies, h)
		}
	}
	if hobbies == nil {
		hobbies = []string{}
	}

	funFacts := []string{noAdditionalInfo}
	if strings.TrimSpace(profile.AdditionalInfo) != "" {
		funFacts = []string{profile.AdditionalInfo}
	}

	return OnboardingData{
		Name:              profile.Name,
		FavoriteThing:     profile.Favorites,
		Hobbies:           hobbies,
		PersonalityTraits: defaultPersonalityTraits,
		FunFacts:          funFacts,
	}
}

type CreateSessionRequest struct {
	OnboardingData OnboardingData `json:"onboarding_data"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type HistoryMessage struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
}
