// Package domain holds the request-scoped values passed between the relay's
// collaborators and handlers.
package domain

// ScrapeResult is the set of fields extracted from one article page.
type ScrapeResult struct {
	Title string
	// ImageURL is empty when the page has no lead image.
	ImageURL string
	BodyText string
}

// MetaEvent is the first frame of every scrape stream.
type MetaEvent struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

// ContentEvent carries one completion fragment.
type ContentEvent struct {
	Content string `json:"content"`
}

// ErrorEvent terminates a stream that failed after it started.
type ErrorEvent struct {
	Error string `json:"error"`
}

// Meta builds the metadata frame for r.
func (r *ScrapeResult) Meta() MetaEvent {
	return MetaEvent{Title: r.Title, Image: r.ImageURL}
}
