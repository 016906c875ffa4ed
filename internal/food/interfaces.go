package food

import "context"

// Database searches an external nutrition database.
type Database interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Recognizer labels an encoded image. Tags are ranked by confidence.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]Tag, error)
}
