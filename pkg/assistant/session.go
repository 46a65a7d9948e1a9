package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// greeting seeds every new conversation
const greeting = "Szia! Miben segíthetek a vásárlásban?"

// failureMessage is the single generic line shown for any failed exchange
const failureMessage = "Hiba történt, próbáld újra."

var (
	// ErrBusy rejects a submit while another exchange is in flight
	ErrBusy = errors.New("assistant: exchange already in flight")
	// ErrEmptyInput rejects blank input without touching the conversation
	ErrEmptyInput = errors.New("assistant: empty input")
	// ErrClosed rejects submits after Close
	ErrClosed = errors.New("assistant: session closed")
)

// Message is one rendered line of the conversation. For an in-progress
// streamed reply, Content grows until the stream ends; Pending marks the
// placeholder shown before the first byte arrives.
type Message struct {
	Id          uuid.UUID
	Role        string
	Content     string
	Pending     bool
	Err         bool
	Products    []ProductStub
	Suggestions []string
}

// Session is the conversation state machine behind a chat widget. It is
// idle or submitting, never both: a guard rejects overlapping submits, and
// every exchange, successful or not, returns the session to idle.
type Session struct {
	mu        sync.Mutex
	transport Transport
	messages  []Message
	busy      bool
	closed    bool
	cancel    context.CancelFunc
	onChange  func([]Message)
}

func NewSession(transport Transport) *Session {
	return &Session{
		transport: transport,
		messages:  []Message{{Id: uuid.New(), Role: RoleAssistant, Content: greeting}},
	}
}

// OnChange registers a render callback invoked with a snapshot of the
// conversation after every state mutation. The callback runs on the
// submitting goroutine and must not call back into the session.
func (s *Session) OnChange(fn func([]Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Messages returns a snapshot of the conversation.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// begin takes the guard and appends the user message plus the assistant
// placeholder. The placeholder exists before the first byte is read so a
// slow-starting stream still shows a response bubble.
func (s *Session) begin(input string) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.busy {
		return nil, ErrBusy
	}

	s.busy = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.messages = append(s.messages,
		Message{Id: uuid.New(), Role: RoleUser, Content: input},
		Message{Id: uuid.New(), Role: RoleAssistant, Pending: true},
	)
	s.notifyLocked()
	return ctx, nil
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.notifyLocked()
}

// SubmitStream runs one streaming exchange. It blocks until the stream ends;
// widgets call it from their own goroutine and re-render via OnChange.
func (s *Session) SubmitStream(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return ErrEmptyInput
	}

	ctx, err := s.begin(input)
	if err != nil {
		return err
	}
	defer s.finish()

	turns := s.historyTurns()

	streamErr := s.transport.Stream(ctx, turns, func(fragment string) {
		s.appendToPlaceholder(fragment)
	})
	if streamErr != nil {
		s.failPlaceholder()
		return streamErr
	}

	s.settlePlaceholder()
	return nil
}

// SubmitAsk runs one structured exchange. Suggestion chips resubmit their
// text through this same path.
func (s *Session) SubmitAsk(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return ErrEmptyInput
	}

	ctx, err := s.begin(input)
	if err != nil {
		return err
	}
	defer s.finish()

	result, askErr := s.transport.Ask(ctx, input)
	if askErr != nil || !result.Success {
		s.failPlaceholder()
		return askErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	last := &s.messages[len(s.messages)-1]
	last.Pending = false
	last.Content = result.Answer
	last.Products = result.Products
	last.Suggestions = result.Suggestions
	s.notifyLocked()
	return nil
}

// Reset returns the session to a fresh conversation.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.messages = []Message{{Id: uuid.New(), Role: RoleAssistant, Content: greeting}}
	s.notifyLocked()
	return nil
}

// Close aborts any in-flight exchange and rejects further submits. Widgets
// call it on unmount so a dangling stream does not outlive the UI.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// historyTurns converts the settled conversation into wire turns. The
// greeting, error lines, and the pending placeholder are widget furniture,
// not model context.
func (s *Session) historyTurns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]Turn, 0, len(s.messages))
	for i, m := range s.messages {
		if i == 0 || m.Pending || m.Err {
			continue
		}
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// appendToPlaceholder grows the in-progress reply. Content is append-only:
// fragments land in arrival order and are never reordered or dropped.
func (s *Session) appendToPlaceholder(fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := &s.messages[len(s.messages)-1]
	last.Content += fragment
	s.notifyLocked()
}

func (s *Session) settlePlaceholder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[len(s.messages)-1].Pending = false
	s.notifyLocked()
}

// failPlaceholder converts an empty placeholder into the single error line,
// or keeps the partial text and appends the error line after it. Either way
// the failed exchange adds exactly one error message and prior messages are
// untouched.
func (s *Session) failPlaceholder() {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := &s.messages[len(s.messages)-1]
	if last.Pending && last.Content == "" {
		last.Pending = false
		last.Err = true
		last.Content = failureMessage
	} else {
		last.Pending = false
		s.messages = append(s.messages, Message{Id: uuid.New(), Role: RoleAssistant, Err: true, Content: failureMessage})
	}
	s.notifyLocked()
}

func (s *Session) notifyLocked() {
	if s.onChange == nil {
		return
	}
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	s.onChange(out)
}
