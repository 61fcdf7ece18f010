package processor

import (
	"callassist-server/internal/observability"
	"callassist-server/internal/store"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrGenerationUnavailable = errors.New("generation backend unavailable")
	ErrUnknownBackend        = errors.New("unknown generation backend")
)

// GenerationError reports a backend that timed out or could not be reached.
// It matches ErrGenerationUnavailable and the underlying cause.
type GenerationError struct {
	Backend string
	Timeout bool
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s backend timed out: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("%s backend failed: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationUnavailable, e.Err}
}

// Reply is a generated answer. Degraded replies are canned acknowledgments
// used when the backend answered with nothing.
type Reply struct {
	Text     string
	Degraded bool
	Backend  string
}

// wordLimits caps reply length by mode and the account's response_length.
var wordLimits = map[Mode]map[string]int{
	ModeVoice: {
		store.ResponseLengthShort:  50,
		store.ResponseLengthMedium: 65,
		store.ResponseLengthLong:   80,
	},
	ModeText: {
		store.ResponseLengthShort:  60,
		store.ResponseLengthMedium: 100,
		store.ResponseLengthLong:   150,
	},
}

// WordLimit returns the reply cap for mode and responseLength. Unknown lengths
// use medium.
func WordLimit(mode Mode, responseLength string) int {
	limits, ok := wordLimits[mode]
	if !ok {
		limits = wordLimits[ModeVoice]
	}
	if limit, ok := limits[responseLength]; ok {
		return limit
	}
	return limits[store.ResponseLengthMedium]
}

type ResponseGenerator struct {
	backends       map[string]Backend
	defaultBackend string
	timeout        time.Duration
	logger         *observability.Logger
}

// NewResponseGenerator registers backends by name. defaultBackend must be one of them.
func NewResponseGenerator(logger *observability.Logger, timeout time.Duration, defaultBackend string, backends ...Backend) (*ResponseGenerator, error) {
	registry := make(map[string]Backend, len(backends))
	for _, b := range backends {
		if b == nil {
			continue
		}
		registry[b.Name()] = b
	}
	if _, ok := registry[defaultBackend]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, defaultBackend)
	}
	return &ResponseGenerator{
		backends:       registry,
		defaultBackend: defaultBackend,
		timeout:        timeout,
		logger:         logger,
	}, nil
}

// Generate produces a reply to userMessage. A backend that answers with nothing
// yields a degraded Reply and no error. A backend that times out or fails yields
// a *GenerationError.
func (g *ResponseGenerator) Generate(ctx context.Context, userMessage string, cc ConversationContext) (Reply, error) {
	backend := g.backendFor(cc.PreferredBackend)
	limit := WordLimit(cc.Mode, cc.ResponseLength)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "backend", Value: backend.Name()},
		observability.Field{Key: "mode", Value: string(cc.Mode)},
		observability.Field{Key: "word_limit", Value: limit},
	)

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := backend.Complete(callCtx, BuildSystemPrompt(cc, limit), userMessage, maxTokensFor(limit))
	if err != nil {
		genErr := &GenerationError{
			Backend: backend.Name(),
			Timeout: errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded),
			Err:     err,
		}
		g.logger.Error(ctx, "failed to generate reply", genErr)
		return Reply{}, genErr
	}

	text = strings.TrimSpace(text)
	if text == "" {
		g.logger.Warn(ctx, "backend returned empty reply, using acknowledgment")
		return Reply{Text: Acknowledgment(userMessage), Degraded: true, Backend: backend.Name()}, nil
	}

	g.logger.Metrics(ctx,
		observability.MetricField{Key: "generation_latency_ms", Value: time.Since(start).Milliseconds()},
	)
	return Reply{Text: TrimToWords(text, limit), Backend: backend.Name()}, nil
}

// Backends returns the registered backend names in sorted order.
func (g *ResponseGenerator) Backends() []string {
	names := make([]string, 0, len(g.backends))
	for name := range g.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultBackend is used when an account has no usable ai_model preference.
func (g *ResponseGenerator) DefaultBackend() string {
	return g.defaultBackend
}

func (g *ResponseGenerator) backendFor(preferred string) Backend {
	if b, ok := g.backends[strings.ToLower(strings.TrimSpace(preferred))]; ok {
		return b
	}
	return g.backends[g.defaultBackend]
}

// maxTokensFor leaves headroom over the word cap so the model finishes its
// sentence before TrimToWords applies the hard limit.
func maxTokensFor(words int) int {
	return words*2 + 20
}

// TrimToWords cuts text to at most limit words, preferring the last complete
// sentence when that keeps at least half of the allowance.
func TrimToWords(text string, limit int) string {
	words := strings.Fields(text)
	if limit <= 0 || len(words) <= limit {
		return strings.Join(words, " ")
	}

	kept := words[:limit]
	for i := len(kept) - 1; i >= 0 && i+1 >= limit/2; i-- {
		if endsSentence(kept[i]) {
			return strings.Join(kept[:i+1], " ")
		}
	}
	return strings.TrimRight(strings.Join(kept, " "), ",;:") + "..."
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

// Acknowledgment is the canned reply that names what the caller said.
func Acknowledgment(userMessage string) string {
	excerpt := TrimToWords(userMessage, 20)
	excerpt = strings.TrimSuffix(excerpt, "...")
	if excerpt == "" {
		return "Thanks for your message. I've noted it and will get back to you shortly."
	}
	return fmt.Sprintf("Thanks for your message about %q. I've noted it and will get back to you shortly.", excerpt)
}
