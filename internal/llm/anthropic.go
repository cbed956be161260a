package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const opReadAnthropic = "read anthropic stream"

var errEmptyStream = errors.New("stream ended before any event")

// Anthropic streams completions from the Messages API.
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic creates an Anthropic streamer. Retries are disabled.
func NewAnthropic(apiKey, baseURL string, httpClient *http.Client) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Anthropic{client: anthropic.NewClient(opts...)}
}

// Stream opens the completion. The first event is read before returning so
// that connection and status failures surface as an error here rather than
// as a fragment.
func (a *Anthropic) Stream(ctx context.Context, req Request) (<-chan Fragment, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	// Current Claude models reject temperature and top_p together, so top_p
	// is only sent when no temperature is configured.
	switch {
	case req.Temperature != nil:
		params.Temperature = anthropic.Float(*req.Temperature)
	case req.TopP != nil:
		params.TopP = anthropic.Float(*req.TopP)
	}
	if req.SystemPersona != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPersona}}
	}

	stream := a.client.Messages.NewStreaming(ctx, params)
	if !stream.Next() {
		err := stream.Err()
		_ = stream.Close()
		if err == nil {
			err = errEmptyStream
		}
		return nil, streamError(opOpenStream, err)
	}

	out := make(chan Fragment)
	go func() {
		defer close(out)
		defer func() { _ = stream.Close() }()

		for {
			if text, ok := textDelta(stream.Current()); ok {
				if !send(ctx, out, Fragment{Text: text}) {
					return
				}
			}
			if !stream.Next() {
				break
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			send(ctx, out, Fragment{Err: streamError(opReadAnthropic, err)})
		}
	}()

	return out, nil
}

// textDelta extracts text from a content_block_delta event. Other events
// (message_start, ping, thinking deltas) carry no output text.
func textDelta(event anthropic.MessageStreamEventUnion) (string, bool) {
	delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
	if !ok {
		return "", false
	}
	text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
	if !ok {
		return "", false
	}
	return text.Text, true
}
