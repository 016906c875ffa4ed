// Package food resolves free-text queries and recognized image tags into
// nutrition candidates.
package food

import (
	"strings"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
)

// Origin marks where a candidate came from.
type Origin string

const (
	OriginLocal    Origin = "local-reference"
	OriginExternal Origin = "external-database"
	OriginImage    Origin = "image-recognition-estimate"
	// OriginFallback marks the placeholder returned when no lookup matched.
	OriginFallback Origin = "fallback-estimate"
)

// Candidate is a nutrition suggestion that has not been logged yet.
type Candidate struct {
	nutrition.Record
	Origin    Origin `json:"origin"`
	Brand     string `json:"brand,omitempty"`
	Category  string `json:"category,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Estimated bool   `json:"estimated,omitempty"`
}

// Tag is one label from an image recognizer with confidence on a 0-100 scale.
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// NormalizeKey lower-cases and trims a food name for cache lookups.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
