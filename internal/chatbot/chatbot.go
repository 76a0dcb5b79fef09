// Package chatbot answers free-text questions through a hosted
// text-generation model. Failures never surface as errors to the user:
// they become a fixed apology plus a banner.
package chatbot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	FallbackReply    = "Sorry, I encountered an error. Please try again."
	FailureBanner    = "Failed to get response. Please try again."
	MissingKeyBanner = "Please provide a valid Gemini API key"
)

// ErrNoAPIKey is returned when a generator is built without a key.
var ErrNoAPIKey = errors.New("chatbot: no api key configured")

// Generator turns a prompt into a completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Line is one entry in a conversation transcript.
type Line struct {
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Reply is what the user sees after asking. Banner is set when something
// went wrong.
type Reply struct {
	Text   string `json:"text,omitempty"`
	Banner string `json:"banner,omitempty"`
}

type Options struct {
	Timeout    time.Duration // per attempt
	MaxRetries int
	Backoff    time.Duration // grows linearly with the attempt number
	MaxLines   int           // per transcript; oldest lines are dropped
	Now        func() time.Time
}

// Bot keeps one transcript per conversation id. A Bot with a nil Generator
// answers every prompt with MissingKeyBanner.
type Bot struct {
	gen  Generator
	opts Options
	log  *zap.Logger

	mu          sync.Mutex
	transcripts map[string][]Line
}

func New(gen Generator, opts Options, log *zap.Logger) *Bot {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = 200
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{gen: gen, opts: opts, log: log, transcripts: make(map[string][]Line)}
}

// Ask sends prompt on behalf of conversation id and records the exchange.
// A blank prompt is ignored and yields an empty Reply.
func (b *Bot) Ask(ctx context.Context, id, prompt string) Reply {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Reply{}
	}
	if b.gen == nil {
		return Reply{Banner: MissingKeyBanner}
	}

	b.append(id, Line{Text: prompt, Sender: SenderUser, Timestamp: b.opts.Now()})

	text, err := b.generate(ctx, prompt)
	reply := Reply{Text: text}
	if err != nil {
		b.log.Warn("chatbot request failed", zap.String("conversation_id", id), zap.Error(err))
		reply = Reply{Text: FallbackReply, Banner: FailureBanner}
	}

	b.append(id, Line{Text: reply.Text, Sender: SenderAI, Timestamp: b.opts.Now()})
	return reply
}

func (b *Bot) generate(ctx context.Context, prompt string) (string, error) {
	var err error
	for attempt := 0; attempt <= b.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(time.Duration(attempt) * b.opts.Backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return "", ctx.Err()
			case <-t.C:
			}
		}

		var text string
		text, err = b.attempt(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		b.log.Debug("chatbot attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", err
}

func (b *Bot) attempt(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()
	return b.gen.Generate(ctx, prompt)
}

func (b *Bot) append(id string, l Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := append(b.transcripts[id], l)
	if over := len(lines) - b.opts.MaxLines; over > 0 {
		lines = append([]Line(nil), lines[over:]...)
	}
	b.transcripts[id] = lines
}

// Transcript returns a copy of the conversation, oldest line first.
func (b *Bot) Transcript(id string) []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Line{}, b.transcripts[id]...)
}

// Clear forgets a conversation.
func (b *Bot) Clear(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.transcripts, id)
}
