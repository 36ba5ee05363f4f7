package driven

import "context"

// FetchedDocument is the raw result of a remote fetch.
type FetchedDocument struct {
	Payload   []byte
	MediaType string
}

// DocumentFetcher retrieves a source document before the pipeline starts.
// Timeouts and cancellation apply here, never inside the pipeline.
type DocumentFetcher interface {
	// Fetch returns domain.ErrUnsupportedScheme for unknown URL schemes and
	// domain.ErrDocumentTooLarge when the payload exceeds the size cap.
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}
