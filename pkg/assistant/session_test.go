package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu        sync.Mutex
	fragments []string
	streamErr error
	askResult *AskResult
	askErr    error

	gotTurns     [][]Turn
	gotQuestions []string

	// optional hooks
	onStream func(s *fakeTransport)
	release  chan struct{}
}

func (f *fakeTransport) Stream(ctx context.Context, turns []Turn, onFragment func(string)) error {
	f.mu.Lock()
	f.gotTurns = append(f.gotTurns, turns)
	f.mu.Unlock()

	if f.onStream != nil {
		f.onStream(f)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for _, fr := range f.fragments {
		onFragment(fr)
	}
	return f.streamErr
}

func (f *fakeTransport) Ask(ctx context.Context, question string) (*AskResult, error) {
	f.mu.Lock()
	f.gotQuestions = append(f.gotQuestions, question)
	f.mu.Unlock()
	return f.askResult, f.askErr
}

func TestStreamAppendsFragmentsInOrder(t *testing.T) {
	transport := &fakeTransport{fragments: []string{"Az ", "iPhone 15", " ajánlott."}}
	session := NewSession(transport)

	err := session.SubmitStream("Milyen telefont ajánlasz?")
	require.NoError(t, err)

	messages := session.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "Milyen telefont ajánlasz?", messages[1].Content)
	assert.Equal(t, RoleAssistant, messages[2].Role)
	assert.Equal(t, "Az iPhone 15 ajánlott.", messages[2].Content)
	assert.False(t, messages[2].Pending)
	assert.False(t, messages[2].Err)
}

func TestGuardRejectsOverlappingSubmit(t *testing.T) {
	transport := &fakeTransport{
		fragments: []string{"ok"},
		release:   make(chan struct{}),
	}
	session := NewSession(transport)

	done := make(chan error, 1)
	go func() {
		done <- session.SubmitStream("első")
	}()

	// wait for the guard to engage
	require.Eventually(t, session.Busy, time.Second, time.Millisecond)

	err := session.SubmitStream("második")
	assert.ErrorIs(t, err, ErrBusy)

	close(transport.release)
	require.NoError(t, <-done)
	assert.False(t, session.Busy())
}

func TestPlaceholderExistsBeforeFirstByte(t *testing.T) {
	var sawPlaceholder bool
	var session *Session

	transport := &fakeTransport{fragments: []string{"válasz"}}
	transport.onStream = func(*fakeTransport) {
		messages := session.Messages()
		last := messages[len(messages)-1]
		sawPlaceholder = last.Role == RoleAssistant && last.Pending && last.Content == ""
	}
	session = NewSession(transport)

	require.NoError(t, session.SubmitStream("kérdés"))
	assert.True(t, sawPlaceholder, "placeholder must exist before the first byte is read")
}

func TestEmptyInputIsNoOp(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport)

	assert.ErrorIs(t, session.SubmitStream("   "), ErrEmptyInput)
	assert.ErrorIs(t, session.SubmitAsk(""), ErrEmptyInput)

	messages := session.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, greeting, messages[0].Content)
	assert.False(t, session.Busy())
	assert.Empty(t, transport.gotTurns)
}

func TestMidStreamFailureKeepsPartialText(t *testing.T) {
	transport := &fakeTransport{fragments: []string{"Az iPhone"}}
	session := NewSession(transport)
	require.NoError(t, session.SubmitStream("első kérdés"))

	transport.fragments = []string{"Fél"}
	transport.streamErr = errors.New("connection reset")
	err := session.SubmitStream("második kérdés")
	require.Error(t, err)

	messages := session.Messages()
	require.Len(t, messages, 6)

	// prior exchange untouched
	assert.Equal(t, "Az iPhone", messages[2].Content)

	// partial text kept, exactly one error line added
	assert.Equal(t, "Fél", messages[4].Content)
	assert.False(t, messages[4].Err)
	assert.True(t, messages[5].Err)
	assert.Equal(t, failureMessage, messages[5].Content)
}

func TestPreStreamFailureLeavesNoHangingPlaceholder(t *testing.T) {
	transport := &fakeTransport{streamErr: ErrUnavailable}
	session := NewSession(transport)

	err := session.SubmitStream("kérdés")
	assert.ErrorIs(t, err, ErrUnavailable)

	messages := session.Messages()
	require.Len(t, messages, 3)
	last := messages[2]
	assert.True(t, last.Err)
	assert.False(t, last.Pending)
	assert.Equal(t, failureMessage, last.Content)
	assert.False(t, session.Busy())
}

func TestAskRendersProductsAndSuggestions(t *testing.T) {
	transport := &fakeTransport{
		askResult: &AskResult{
			Success:     true,
			Answer:      "Az AirPods Pro remek ajándék.",
			Products:    []ProductStub{{Name: "AirPods Pro", Slug: "airpods-pro", Price: 89990}},
			Suggestions: []string{"Mutass még fülhallgatót"},
		},
	}
	session := NewSession(transport)

	require.NoError(t, session.SubmitAsk("ajándék ötlet"))

	messages := session.Messages()
	require.Len(t, messages, 3)
	last := messages[2]
	assert.Equal(t, "Az AirPods Pro remek ajándék.", last.Content)
	require.Len(t, last.Products, 1)
	assert.Equal(t, "89 990 Ft", FormatPrice(last.Products[0].Price))
	require.Len(t, last.Suggestions, 1)

	// a suggestion chip resubmits its text through the same path
	require.NoError(t, session.SubmitAsk(last.Suggestions[0]))
	assert.Equal(t, []string{"ajándék ötlet", "Mutass még fülhallgatót"}, transport.gotQuestions)
}

func TestAskFailureRendersFallback(t *testing.T) {
	transport := &fakeTransport{askResult: &AskResult{Success: false}}
	session := NewSession(transport)

	require.NoError(t, session.SubmitAsk("kérdés"))

	messages := session.Messages()
	require.Len(t, messages, 3)
	assert.True(t, messages[2].Err)
	assert.Equal(t, failureMessage, messages[2].Content)
}

func TestHistoryExcludesGreetingAndErrorLines(t *testing.T) {
	transport := &fakeTransport{streamErr: errors.New("boom")}
	session := NewSession(transport)
	_ = session.SubmitStream("első")

	transport.streamErr = nil
	transport.fragments = []string{"rendben"}
	require.NoError(t, session.SubmitStream("második"))

	require.Len(t, transport.gotTurns, 2)
	secondCall := transport.gotTurns[1]
	for _, turn := range secondCall {
		assert.NotEqual(t, greeting, turn.Content)
		assert.NotEqual(t, failureMessage, turn.Content)
	}
	assert.Equal(t, Turn{Role: RoleUser, Content: "második"}, secondCall[len(secondCall)-1])
}

func TestCloseAbortsInFlightStream(t *testing.T) {
	transport := &fakeTransport{release: make(chan struct{})}
	session := NewSession(transport)

	done := make(chan error, 1)
	go func() {
		done <- session.SubmitStream("kérdés")
	}()
	require.Eventually(t, session.Busy, time.Second, time.Millisecond)

	session.Close()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, session.SubmitStream("újra"), ErrClosed)
}

func TestOnChangeSeesMonotonicallyGrowingReply(t *testing.T) {
	transport := &fakeTransport{fragments: []string{"Az ", "iPhone 15", " ajánlott."}}
	session := NewSession(transport)

	var observed []string
	session.OnChange(func(messages []Message) {
		last := messages[len(messages)-1]
		if last.Role == RoleAssistant && !last.Err {
			observed = append(observed, last.Content)
		}
	})

	require.NoError(t, session.SubmitStream("kérdés"))

	for i := 1; i < len(observed); i++ {
		assert.True(t, len(observed[i]) >= len(observed[i-1]), "reply must never shrink")
		assert.Equal(t, observed[i-1], observed[i][:len(observed[i-1])])
	}
	assert.Equal(t, "Az iPhone 15 ajánlott.", observed[len(observed)-1])
}

func TestResetRestoresGreeting(t *testing.T) {
	transport := &fakeTransport{fragments: []string{"ok"}}
	session := NewSession(transport)
	require.NoError(t, session.SubmitStream("kérdés"))

	require.NoError(t, session.Reset())
	messages := session.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, greeting, messages[0].Content)
}
