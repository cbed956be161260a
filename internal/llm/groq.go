package llm

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const opReadGroq = "read groq stream"

// Groq streams completions from Groq's OpenAI-compatible API.
type Groq struct {
	client *openai.Client
}

// NewGroq creates a Groq streamer. Empty baseURL keeps the library default.
func NewGroq(apiKey, baseURL string, httpClient *http.Client) *Groq {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Groq{client: openai.NewClientWithConfig(cfg)}
}

// Stream opens the completion and pumps deltas into the returned channel.
func (g *Groq) Stream(ctx context.Context, req Request) (<-chan Fragment, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPersona != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPersona,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: sampling(req.Temperature),
		TopP:        sampling(req.TopP),
		MaxTokens:   req.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, streamError(opOpenStream, err)
	}

	out := make(chan Fragment)
	go func() {
		defer close(out)
		defer stream.Close()

		for {
			resp, recvErr := stream.Recv()
			if errors.Is(recvErr, io.EOF) {
				return
			}
			if recvErr != nil {
				if ctx.Err() == nil {
					send(ctx, out, Fragment{Err: streamError(opReadGroq, recvErr)})
				}
				return
			}

			var text string
			if len(resp.Choices) > 0 {
				text = resp.Choices[0].Delta.Content
			}
			if !send(ctx, out, Fragment{Text: text}) {
				return
			}
		}
	}()

	return out, nil
}

// sampling converts an optional sampling parameter for go-openai, whose
// float fields are omitempty. nil is omitted; an explicit 0 is sent as the
// smallest positive float32 so it is not dropped.
func sampling(v *float64) float32 {
	switch {
	case v == nil:
		return 0
	case *v == 0:
		return math.SmallestNonzeroFloat32
	default:
		return float32(*v)
	}
}
