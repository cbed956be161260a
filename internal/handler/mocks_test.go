package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/threelok/news-relay/internal/domain"
	"github.com/threelok/news-relay/internal/llm"
)

type mockScraper struct {
	mock.Mock
}

func (m *mockScraper) Scrape(ctx context.Context, url string) (*domain.ScrapeResult, error) {
	args := m.Called(ctx, url)
	res, _ := args.Get(0).(*domain.ScrapeResult)
	return res, args.Error(1)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchCategory(ctx context.Context, categoryID string) ([]byte, error) {
	args := m.Called(ctx, categoryID)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type mockStreamer struct {
	mock.Mock
}

func (m *mockStreamer) Stream(ctx context.Context, req llm.Request) (<-chan llm.Fragment, error) {
	args := m.Called(ctx, req)
	ch, _ := args.Get(0).(<-chan llm.Fragment)
	return ch, args.Error(1)
}

// fragments replays frags on an unbuffered channel, as a provider would.
func fragments(frags ...llm.Fragment) <-chan llm.Fragment {
	ch := make(chan llm.Fragment)
	go func() {
		defer close(ch)
		for _, f := range frags {
			ch <- f
		}
	}()
	return ch
}

func texts(parts ...string) []llm.Fragment {
	out := make([]llm.Fragment, 0, len(parts))
	for _, p := range parts {
		out = append(out, llm.Fragment{Text: p})
	}
	return out
}

func f64(v float64) *float64 { return &v }
