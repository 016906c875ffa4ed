// Package awsvision labels food photos with Amazon Rekognition.
package awsvision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/rpggio/nutrilog/internal/food"
)

// DetectLabelsAPI is the part of the Rekognition client used here.
type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Options tunes label detection.
type Options struct {
	Region        string
	MaxLabels     int32
	MinConfidence float32
}

// Recognizer implements food.Recognizer over DetectLabels.
type Recognizer struct {
	api    DetectLabelsAPI
	opts   Options
	logger *slog.Logger
}

// New loads the default AWS configuration for opts.Region and builds a
// Recognizer on it.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Recognizer, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithAPI(rekognition.NewFromConfig(cfg), opts, logger), nil
}

// NewWithAPI builds a Recognizer on an existing client.
func NewWithAPI(api DetectLabelsAPI, opts Options, logger *slog.Logger) *Recognizer {
	if opts.MaxLabels <= 0 {
		opts.MaxLabels = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{api: api, opts: opts, logger: logger}
}

// Recognize returns the image's labels as tags, confidence on 0..100.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) ([]food.Tag, error) {
	if len(image) == 0 {
		return nil, errors.New("empty image")
	}
	in := &rekognition.DetectLabelsInput{
		Image:     &types.Image{Bytes: image},
		MaxLabels: aws.Int32(r.opts.MaxLabels),
	}
	if r.opts.MinConfidence > 0 {
		in.MinConfidence = aws.Float32(r.opts.MinConfidence)
	}
	out, err := r.api.DetectLabels(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	tags := make([]food.Tag, 0, len(out.Labels))
	for _, l := range out.Labels {
		name := aws.ToString(l.Name)
		if name == "" {
			continue
		}
		tags = append(tags, food.Tag{Name: name, Confidence: float64(aws.ToFloat32(l.Confidence))})
	}
	r.logger.Debug("labels detected", "count", len(tags))
	return tags, nil
}
