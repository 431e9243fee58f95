package onboarding

import (
	"errors"
	"strings"

	"github.com/gennadis/buddychat/internal/chat"
)

// Step is one screen of the onboarding wizard.
type Step int

const (
	StepName Step = iota + 1
	StepHobbies
	StepFavorites
	StepAdditionalInfo
)

// Prompt returns the question shown for the step.
func (s Step) Prompt() string {
	switch s {
	case StepName:
		return "What should I call you?"
	case StepHobbies:
		return "What are you into? (gaming, music, sports, cooking, reading...)"
	case StepFavorites:
		return "What are some of your favorites? (movies, music, books, foods...)"
	case StepAdditionalInfo:
		return "Tell me more about yourself"
	default:
		return ""
	}
}

var (
	ErrNameRequired           = errors.New("a name is required to continue")
	ErrAdditionalInfoRequired = errors.New("tell me at least a little about yourself")
	ErrFlowCompleted          = errors.New("onboarding already completed")
)

// Flow is a forward-only four-step wizard that produces a completed profile
// exactly once. There is no way back to an earlier step.
type Flow struct {
	step  Step
	draft chat.Profile
	done  bool
}

// NewFlow creates a wizard positioned at the first step.
func NewFlow() *Flow {
	return &Flow{step: StepName}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	return f.step
}

// Answer records the reply for the current step and advances. Answering the
// final step finalizes the draft and returns it with done=true; the flow is
// spent afterwards. The name and additional-info steps refuse
// empty or whitespace-only replies.
func (f *Flow) Answer(text string) (chat.Profile, bool, error) {
	if f.done {
		return chat.Profile{}, false, ErrFlowCompleted
	}

	switch f.step {
	case StepName:
		if strings.TrimSpace(text) == "" {
			return chat.Profile{}, false, ErrNameRequired
		}
		f.draft.Name = text
	case StepHobbies:
		f.draft.Hobbies = text
	case StepFavorites:
		f.draft.Favorites = text
	case StepAdditionalInfo:
		if strings.TrimSpace(text) == "" {
			return chat.Profile{}, false, ErrAdditionalInfoRequired
		}
		f.draft.AdditionalInfo = text
		f.done = true
		return f.draft, true, nil
	}

	f.step++
	return chat.Profile{}, false, nil
}
