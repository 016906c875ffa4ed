package supabase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/nutrilog/internal/food"
)

const recognizePath = "/functions/v1/recognize-food"

// Recognizer labels images through the recognize-food edge function.
type Recognizer struct {
	c *Client
}

// NewRecognizer creates a new Recognizer.
func NewRecognizer(c *Client) *Recognizer {
	return &Recognizer{c: c}
}

type recognizeRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

type recognizeResponse struct {
	Result *struct {
		Tags []struct {
			Confidence float64 `json:"confidence"`
			Tag        struct {
				En string `json:"en"`
			} `json:"tag"`
		} `json:"tags"`
	} `json:"result"`
}

// Recognize sends the image and returns its tags in the order received.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) ([]food.Tag, error) {
	if len(image) == 0 {
		return nil, errors.New("empty image")
	}
	var resp recognizeResponse
	err := r.c.do(ctx, request{
		method: http.MethodPost,
		path:   recognizePath,
		body:   recognizeRequest{ImageBase64: base64.StdEncoding.EncodeToString(image)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("recognize-food: %w", err)
	}
	if resp.Result == nil {
		return nil, errors.New("recognize-food: response has no result")
	}
	tags := make([]food.Tag, 0, len(resp.Result.Tags))
	for _, t := range resp.Result.Tags {
		tags = append(tags, food.Tag{Name: t.Tag.En, Confidence: t.Confidence})
	}
	return tags, nil
}
