package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// KeyEnter is the key name that submits the input field.
const KeyEnter = "Enter"

// Options configures a Session.
type Options struct {
	Greeting string
	Apology  string
	// Extensions are optional diagram kinds registered once at Start.
	Extensions []string
	Logger     zerolog.Logger
}

// Session is one widget instance: its input field, transcript and the
// collaborators that turn input into rendered replies. Sessions share
// nothing with each other.
type Session struct {
	ID string

	sender     Sender
	renderer   *Renderer
	transcript *Transcript
	opts       Options
	log        zerolog.Logger

	mu    sync.Mutex
	input string

	startOnce sync.Once
	inflight  sync.WaitGroup
}

// NewSession wires a session to its transport, renderer and surface.
func NewSession(sender Sender, renderer *Renderer, surface Surface, opts Options) *Session {
	id := uuid.NewString()
	return &Session{
		ID:         id,
		sender:     sender,
		renderer:   renderer,
		transcript: NewTranscript(surface),
		opts:       opts,
		log:        opts.Logger.With().Str("session", id).Logger(),
	}
}

// Transcript returns the session's transcript.
func (s *Session) Transcript() *Transcript { return s.transcript }

// Start registers the optional diagram extensions and appends the greeting.
// Later calls do nothing.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.ensureExtensions()
		if s.opts.Greeting != "" {
			s.appendMessage(ctx, NewMessage(s.opts.Greeting, Assistant))
		}
	})
}

// ensureExtensions registers optional diagram kinds. A kind that is already
// registered, possibly by another session, is normal and only noted at
// debug level.
func (s *Session) ensureExtensions() {
	reg, ok := s.renderer.Engine().(ExtensionRegistrar)
	if !ok {
		return
	}
	for _, name := range s.opts.Extensions {
		if err := reg.RegisterExtension(name); err != nil {
			s.log.Debug().Err(err).Str("extension", name).Msg("diagram extension registration skipped")
		}
	}
}

// SetInput replaces the input field's value.
func (s *Session) SetInput(v string) {
	s.mu.Lock()
	s.input = v
	s.mu.Unlock()
}

// Input returns the input field's value.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Click handles activation of the send button. It reports whether a
// message was sent.
func (s *Session) Click(ctx context.Context) bool {
	return s.send(ctx)
}

// KeyPress handles a key pressed in the input field. Only Enter sends.
func (s *Session) KeyPress(ctx context.Context, key string) bool {
	if key != KeyEnter {
		return false
	}
	return s.send(ctx)
}

// Wait blocks until every in-flight exchange and diagram render finished.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// send appends the user's message right away, clears the input and runs the
// exchange in the background. Overlapping sends are not sequenced: replies
// are appended in the order they arrive.
func (s *Session) send(ctx context.Context) bool {
	s.mu.Lock()
	query := strings.TrimSpace(s.input)
	if query == "" {
		s.mu.Unlock()
		return false
	}
	s.input = ""
	s.mu.Unlock()

	s.appendMessage(ctx, NewMessage(query, User))
	s.transcript.InputCleared()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.exchange(ctx, query)
	}()
	return true
}

func (s *Session) exchange(ctx context.Context, query string) {
	reply, err := s.sender.Send(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Msg("chat request failed")
		s.appendMessage(ctx, NewMessage(s.opts.Apology, Assistant))
		return
	}
	s.appendMessage(ctx, NewMessage(reply, Assistant))
}

// appendMessage renders msg, attaches it, then schedules population of any
// diagram targets once the node is in the transcript.
func (s *Session) appendMessage(ctx context.Context, msg Message) {
	rendered := s.renderer.Render(msg)
	if rendered.FormatErr != nil {
		s.log.Warn().Err(rendered.FormatErr).Str("message", msg.ID).Msg("formatting failed, showing plain text")
	}
	s.transcript.Append(msg, rendered.Node)

	for _, p := range rendered.Placeholders {
		s.inflight.Add(1)
		go func(p *Placeholder) {
			defer s.inflight.Done()
			s.populate(ctx, p)
		}(p)
	}
}

func (s *Session) populate(ctx context.Context, p *Placeholder) {
	err := s.transcript.Mutate(p.Target, func() error {
		return s.renderer.Populate(ctx, p)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("message", p.MessageID).Msg("diagram shown as source")
	}
}
