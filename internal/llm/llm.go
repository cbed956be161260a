// Package llm opens streaming chat completions against a hosted model and
// exposes them as a channel of text fragments.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/threelok/news-relay/internal/config"
	"github.com/threelok/news-relay/internal/domain"
)

const opOpenStream = "open completion stream"

// rewriteInstruction is appended to the scraped body to form the prompt.
const rewriteInstruction = "Rewrite this content above 4000 words using different sentences without changing the core meaning in Telugu"

// Request describes one completion.
type Request struct {
	Prompt        string
	SystemPersona string
	Model         string

	// Temperature and TopP are nil when the provider default applies.
	Temperature *float64
	TopP        *float64
	MaxTokens   int
}

// Fragment is one piece of streamed output. A Fragment with Err set is the
// last value sent before the channel closes.
type Fragment struct {
	Text string
	Err  error
}

// Streamer opens a completion stream. The returned channel is closed when
// the model finishes, the stream fails, or ctx is cancelled. It is unbuffered
// and yields fragments in arrival order.
type Streamer interface {
	Stream(ctx context.Context, req Request) (<-chan Fragment, error)
}

// BuildPrompt joins the article body and the rewrite instruction.
func BuildPrompt(body string) string {
	return body + " " + rewriteInstruction
}

// RequestFromConfig fills the fixed model parameters for prompt.
func RequestFromConfig(cfg config.LLMConfig, prompt string) Request {
	return Request{
		Prompt:        prompt,
		SystemPersona: cfg.SystemPersona,
		Model:         cfg.Model,
		Temperature:   cfg.Temperature,
		TopP:          cfg.TopP,
		MaxTokens:     cfg.MaxTokens,
	}
}

var errUnknownProvider = errors.New("unknown llm provider")

// New returns the Streamer for cfg.Provider. client should not carry an
// overall timeout since completions stream for minutes.
func New(cfg config.LLMConfig, client *http.Client) (Streamer, error) {
	switch cfg.Provider {
	case config.ProviderGroq, "":
		return NewGroq(cfg.APIKey(), cfg.BaseURL, client), nil
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.APIKey(), cfg.BaseURL, client), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownProvider, cfg.Provider)
	}
}

func streamError(op string, err error) *domain.Error {
	return domain.NewError(domain.KindStream, op, err)
}

// send hands f to the consumer unless ctx is done first.
func send(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
