package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gennadis/buddychat/internal/chat"
	"github.com/gennadis/buddychat/internal/client"
	"github.com/gennadis/buddychat/internal/conversation"
	"github.com/stretchr/testify/require"
)

type fakeProfileStore struct {
	profile chat.Profile
	ok      bool
}

func (f *fakeProfileStore) Load() (chat.Profile, bool, error) {
	return f.profile, f.ok, nil
}

func (f *fakeProfileStore) Save(p chat.Profile) error {
	f.profile, f.ok = p, true
	return nil
}

type fakeSessionStore struct {
	session chat.Session
	ok      bool
	saves   int
	clears  int
}

func (f *fakeSessionStore) Load() (chat.Session, bool, error) {
	return f.session, f.ok, nil
}

func (f *fakeSessionStore) Save(s chat.Session) error {
	messages := make([]chat.Message, len(s.Messages))
	copy(messages, s.Messages)
	s.Messages = messages
	f.session, f.ok = s, true
	f.saves++
	return nil
}

func (f *fakeSessionStore) Clear() error {
	f.session, f.ok = chat.Session{}, false
	f.clears++
	return nil
}

type fakeAgent struct {
	createResp *client.CreateSessionResponse
	createErr  error
	sendResp   string
	sendErr    error
	history    []client.HistoryMessage
	historyErr error

	createCalls int
	sendCalls   int
	onSendTurn  func()
}

func (f *fakeAgent) CreateSession(_ context.Context, _ chat.Profile) (*client.CreateSessionResponse, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResp, nil
}

func (f *fakeAgent) SendTurn(_ context.Context, _, _ string) (string, error) {
	f.sendCalls++
	if f.onSendTurn != nil {
		f.onSendTurn()
	}
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.sendResp, nil
}

func (f *fakeAgent) FetchHistory(_ context.Context, _ string) ([]client.HistoryMessage, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

var testProfile = chat.Profile{
	Name:           "Ana",
	Hobbies:        "chess, reading",
	AdditionalInfo: "loves tea",
}

func TestStartFromOnboardingSeedsGreeting(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{
		createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "Hey Ana! Your buddy is ready to chat! 🎉"},
	}
	sessions := &fakeSessionStore{}
	ctrl := conversation.NewController(&fakeProfileStore{}, sessions, agent)

	greeting := ctrl.StartFromOnboarding(ctx, testProfile)

	require.Equal(t, conversation.StateActive, ctrl.State())
	require.Equal(t, "s-1", ctrl.SessionID())
	require.Equal(t, chat.MoodExcited, greeting.Mood)
	require.Equal(t, agent.createResp.Message, greeting.Text)
	require.True(t, sessions.ok)
	require.Equal(t, "s-1", sessions.session.SessionID)
}

func TestStartFromOnboardingFallsBackLocally(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{createErr: errors.New("connection refused")}
	ctrl := conversation.NewController(&fakeProfileStore{}, &fakeSessionStore{}, agent)

	greeting := ctrl.StartFromOnboarding(ctx, testProfile)

	require.Equal(t, conversation.StateActive, ctrl.State())
	require.Empty(t, ctrl.SessionID())
	require.Equal(t, chat.FallbackGreeting("Ana"), greeting.Text)
}

func TestRehydrateAfterReloadKeepsSessionAndGreeting(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{
		createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "Hey Ana! Your buddy is ready to chat! 🎉"},
	}
	profiles := &fakeProfileStore{}
	sessions := &fakeSessionStore{}

	first := conversation.NewController(profiles, sessions, agent)
	first.StartFromOnboarding(ctx, testProfile)

	// Simulated reload: a fresh controller over the same stores. The server
	// transcript is still empty, so the persisted greeting survives.
	second := conversation.NewController(profiles, sessions, agent)
	require.NoError(t, second.Rehydrate(ctx))

	require.Equal(t, conversation.StateActive, second.State())
	require.Equal(t, "s-1", second.SessionID())
	messages := second.Messages()
	require.NotEmpty(t, messages)
	require.Equal(t, agent.createResp.Message, messages[len(messages)-1].Text)
}

func TestRehydrateReconcilesServerHistory(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{history: []client.HistoryMessage{
		{Content: "hi", Type: "user"},
		{Content: "hello Ana!", Type: "buddy"},
	}}
	profiles := &fakeProfileStore{profile: testProfile, ok: true}
	sessions := &fakeSessionStore{
		session: chat.Session{SessionID: "s-1", Messages: []chat.Message{{ID: 1, Text: "stale", Sender: chat.SenderAgent}}},
		ok:      true,
	}

	ctrl := conversation.NewController(profiles, sessions, agent)
	require.NoError(t, ctrl.Rehydrate(ctx))

	require.Equal(t, conversation.StateActive, ctrl.State())
	messages := ctrl.Messages()
	require.Len(t, messages, 2)
	require.Equal(t, chat.SenderUser, messages[0].Sender)
	require.Equal(t, "hi", messages[0].Text)
	require.Equal(t, chat.SenderAgent, messages[1].Sender)
	require.Equal(t, chat.MoodHappy, messages[1].Mood)
	require.Less(t, messages[0].ID, messages[1].ID)
}

func TestRehydrateHistoryFailureClearsSession(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{historyErr: errors.New("session not found")}
	profiles := &fakeProfileStore{profile: testProfile, ok: true}
	sessions := &fakeSessionStore{
		session: chat.Session{SessionID: "s-1", Messages: []chat.Message{{ID: 1, Text: "hi", Sender: chat.SenderUser}}},
		ok:      true,
	}

	ctrl := conversation.NewController(profiles, sessions, agent)
	require.NoError(t, ctrl.Rehydrate(ctx))

	require.Equal(t, conversation.StateSessionInit, ctrl.State())
	require.Empty(t, ctrl.SessionID())
	require.Empty(t, ctrl.Messages())
	require.Equal(t, 1, sessions.clears)
	require.False(t, sessions.ok)
}

func TestSendUserMessageAppendsTurn(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{
		createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "hello!"},
		sendResp:   "nice to meet you",
	}
	ctrl := conversation.NewController(&fakeProfileStore{}, &fakeSessionStore{}, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)

	reply, ok := ctrl.SendUserMessage(ctx, "hi buddy")

	require.True(t, ok)
	require.Equal(t, "nice to meet you", reply.Text)
	require.Equal(t, conversation.StateActive, ctrl.State())

	messages := ctrl.Messages()
	require.Len(t, messages, 3)
	require.Equal(t, chat.SenderUser, messages[1].Sender)
	require.Equal(t, "hi buddy", messages[1].Text)
	require.Equal(t, chat.SenderAgent, messages[2].Sender)
}

func TestSendUserMessageWhitespaceIsNoOp(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "hello!"}}
	ctrl := conversation.NewController(&fakeProfileStore{}, &fakeSessionStore{}, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)

	before := len(ctrl.Messages())
	_, ok := ctrl.SendUserMessage(ctx, "   ")

	require.False(t, ok)
	require.Len(t, ctrl.Messages(), before)
	require.Equal(t, conversation.StateActive, ctrl.State())
	require.Zero(t, agent.sendCalls)
}

func TestSendUserMessageRejectedWhilePending(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{
		createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "hello!"},
		sendResp:   "reply",
	}
	ctrl := conversation.NewController(&fakeProfileStore{}, &fakeSessionStore{}, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)

	// Re-entrant send while the first turn is still in flight.
	var nestedOK bool
	agent.onSendTurn = func() {
		agent.onSendTurn = nil
		_, nestedOK = ctrl.SendUserMessage(ctx, "second")
	}

	_, ok := ctrl.SendUserMessage(ctx, "first")

	require.True(t, ok)
	require.False(t, nestedOK)
	require.Equal(t, 1, agent.sendCalls)
	require.Len(t, ctrl.Messages(), 3)
}

func TestSendTurnFailureYieldsFallbackReply(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{
		createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "hello!"},
		sendErr:    errors.New("boom"),
	}
	ctrl := conversation.NewController(&fakeProfileStore{}, &fakeSessionStore{}, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)
	before := len(ctrl.Messages())

	reply, ok := ctrl.SendUserMessage(ctx, "hi")

	require.True(t, ok)
	require.Equal(t, chat.FallbackReply, reply.Text)
	require.Equal(t, chat.MoodConfused, reply.Mood)
	require.Equal(t, conversation.StateActive, ctrl.State())
	require.Len(t, ctrl.Messages(), before+2)
}

func TestSendRetriesSessionCreation(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{createErr: errors.New("connection refused")}
	ctrl := conversation.NewController(&fakeProfileStore{}, &fakeSessionStore{}, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)
	require.Empty(t, ctrl.SessionID())

	// Service still down: the turn resolves locally, /chat is never called.
	reply, ok := ctrl.SendUserMessage(ctx, "anyone there?")
	require.True(t, ok)
	require.Equal(t, chat.NoSessionReply, reply.Text)
	require.Equal(t, chat.MoodConfused, reply.Mood)
	require.Zero(t, agent.sendCalls)

	// Service back up: the next send obtains a session first.
	agent.createErr = nil
	agent.createResp = &client.CreateSessionResponse{SessionID: "s-2", Message: "hello!"}
	agent.sendResp = "there you are"

	reply, ok = ctrl.SendUserMessage(ctx, "hello?")
	require.True(t, ok)
	require.Equal(t, "there you are", reply.Text)
	require.Equal(t, "s-2", ctrl.SessionID())
	require.Equal(t, 1, agent.sendCalls)
}

func TestUpdateProfilePersistsAndConfirms(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "hello!"}}
	profiles := &fakeProfileStore{}
	ctrl := conversation.NewController(profiles, &fakeSessionStore{}, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)

	updated := testProfile
	updated.Favorites = "jazz"
	confirm, ok := ctrl.UpdateProfile(updated)

	require.True(t, ok)
	require.Equal(t, chat.MoodHappy, confirm.Mood)
	require.Equal(t, "jazz", profiles.profile.Favorites)
	require.Equal(t, "s-1", ctrl.SessionID())
}

func TestUpdateProfileRejectedBeforeConversation(t *testing.T) {
	ctrl := conversation.NewController(&fakeProfileStore{}, &fakeSessionStore{}, &fakeAgent{})

	_, ok := ctrl.UpdateProfile(testProfile)
	require.False(t, ok)
}

func TestEndSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "hello!"}}
	sessions := &fakeSessionStore{}
	ctrl := conversation.NewController(&fakeProfileStore{}, sessions, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)

	notice := ctrl.EndSession()
	require.Equal(t, chat.SessionEndedText, notice.Text)
	require.Equal(t, conversation.StateEnded, ctrl.State())
	require.Empty(t, ctrl.SessionID())
	require.False(t, sessions.ok)

	notice = ctrl.EndSession()
	require.Equal(t, chat.SessionEndedText, notice.Text)
	require.Equal(t, conversation.StateEnded, ctrl.State())
	require.False(t, sessions.ok)
}

func TestEndSessionNoticeIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{createResp: &client.CreateSessionResponse{SessionID: "s-1", Message: "hello!"}}
	sessions := &fakeSessionStore{}
	ctrl := conversation.NewController(&fakeProfileStore{}, sessions, agent)
	ctrl.StartFromOnboarding(ctx, testProfile)

	saves := sessions.saves
	ctrl.EndSession()

	require.Equal(t, saves, sessions.saves)
	require.Empty(t, sessions.session.Messages)
}
