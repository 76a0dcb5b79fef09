package chatbot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// scripted replies with its results in order, then repeats the last one.
type scripted struct {
	mu      sync.Mutex
	results []result
	calls   int
	prompts []string
}

type result struct {
	text string
	err  error
}

func (s *scripted) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[min(s.calls, len(s.results)-1)]
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return r.text, r.err
}

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newBot(gen Generator, retries int) *Bot {
	return New(gen, Options{
		Timeout:    time.Second,
		MaxRetries: retries,
		Backoff:    time.Millisecond,
		MaxLines:   4,
		Now:        func() time.Time { return fixedNow },
	}, nil)
}

func TestAsk(t *testing.T) {
	boom := errors.New("503 unavailable")
	tests := []struct {
		name      string
		results   []result
		retries   int
		wantReply Reply
		wantCalls int
	}{
		{
			name:      "first try",
			results:   []result{{text: "Binary search halves the range."}},
			retries:   2,
			wantReply: Reply{Text: "Binary search halves the range."},
			wantCalls: 1,
		},
		{
			name:      "recovers on retry",
			results:   []result{{err: boom}, {text: "ok"}},
			retries:   2,
			wantReply: Reply{Text: "ok"},
			wantCalls: 2,
		},
		{
			name:      "gives up after retries",
			results:   []result{{err: boom}},
			retries:   2,
			wantReply: Reply{Text: FallbackReply, Banner: FailureBanner},
			wantCalls: 3,
		},
		{
			name:      "no retries",
			results:   []result{{err: boom}},
			retries:   0,
			wantReply: Reply{Text: FallbackReply, Banner: FailureBanner},
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scripted{results: tt.results}
			bot := newBot(gen, tt.retries)

			got := bot.Ask(context.Background(), "ws-1", "  what is binary search?  ")
			if got != tt.wantReply {
				t.Errorf("Ask() = %+v, want %+v", got, tt.wantReply)
			}
			if gen.calls != tt.wantCalls {
				t.Errorf("generator called %d times, want %d", gen.calls, tt.wantCalls)
			}
			if gen.prompts[0] != "what is binary search?" {
				t.Errorf("prompt sent = %q, want it trimmed", gen.prompts[0])
			}

			lines := bot.Transcript("ws-1")
			if len(lines) != 2 || lines[0].Sender != SenderUser || lines[1].Sender != SenderAI || lines[1].Text != tt.wantReply.Text {
				t.Errorf("Transcript() = %+v", lines)
			}
		})
	}
}

func TestAsk_MissingKey(t *testing.T) {
	bot := newBot(nil, 2)
	got := bot.Ask(context.Background(), "ws-1", "hello")
	if got != (Reply{Banner: MissingKeyBanner}) {
		t.Errorf("Ask() = %+v, want the missing key banner only", got)
	}
	if len(bot.Transcript("ws-1")) != 0 {
		t.Error("prompt recorded without a key")
	}
}

func TestAsk_BlankPromptIgnored(t *testing.T) {
	gen := &scripted{results: []result{{text: "x"}}}
	bot := newBot(gen, 0)
	if got := bot.Ask(context.Background(), "ws-1", "   "); got != (Reply{}) {
		t.Errorf("Ask(blank) = %+v, want empty", got)
	}
	if gen.calls != 0 {
		t.Error("blank prompt reached the generator")
	}
}

type slow struct{}

func (slow) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestAsk_TimeoutFallsBack(t *testing.T) {
	bot := New(slow{}, Options{Timeout: 5 * time.Millisecond, MaxRetries: 1, Backoff: time.Millisecond}, nil)
	got := bot.Ask(context.Background(), "ws-1", "hello?")
	if got.Text != FallbackReply || got.Banner != FailureBanner {
		t.Errorf("Ask() = %+v, want fallback after timeouts", got)
	}
}

func TestTranscript_BoundedAndClearable(t *testing.T) {
	gen := &scripted{results: []result{{text: "a"}}}
	bot := newBot(gen, 0)
	for _, p := range []string{"one", "two", "three"} {
		bot.Ask(context.Background(), "ws-1", p)
	}
	bot.Ask(context.Background(), "ws-2", "other")

	lines := bot.Transcript("ws-1")
	if len(lines) != 4 || lines[0].Text != "two" {
		t.Errorf("Transcript() = %+v, want the last 4 lines starting at two", lines)
	}
	bot.Clear("ws-1")
	if len(bot.Transcript("ws-1")) != 0 {
		t.Error("Clear() kept lines")
	}
	if len(bot.Transcript("ws-2")) != 2 {
		t.Error("Clear() touched another conversation")
	}
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), " ", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("NewGeminiGenerator(no key) error = %v, want ErrNoAPIKey", err)
	}
}
