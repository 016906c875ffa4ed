package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/nutrilog/internal/app"
	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/rpggio/nutrilog/internal/awsvision"
	"github.com/rpggio/nutrilog/internal/config"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/openfoodfacts"
	"github.com/rpggio/nutrilog/internal/sqlite"
	"github.com/rpggio/nutrilog/internal/storage"
	"github.com/rpggio/nutrilog/internal/supabase"
)

// backend is the record store selected by configuration.
type backend struct {
	meals    meal.Repository
	workouts workout.Repository
	profiles profile.Repository

	// Set for the supabase backend.
	client *supabase.Client
	holder *auth.Holder

	// Set for the sqlite backend.
	db      *sqlite.DB
	catalog *sqlite.FoodCatalog

	// tokens verifies bearer tokens; nil means single-user local mode.
	tokens *auth.Verifier
}

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Backend.Kind {
	case "supabase":
		holder := &auth.Holder{}
		client := supabase.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey, holder, cfg.Backend.Timeout, logger)
		return &backend{
			meals:    supabase.NewMealRepository(client),
			workouts: supabase.NewWorkoutRepository(client),
			profiles: supabase.NewProfileRepository(client),
			client:   client,
			holder:   holder,
			tokens:   auth.NewVerifier(cfg.Backend.JWTSecret),
		}, nil
	default:
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, err
		}
		b := &backend{
			meals:    sqlite.NewMealRepository(db),
			workouts: sqlite.NewWorkoutRepository(db),
			profiles: sqlite.NewProfileRepository(db),
			db:       db,
			catalog:  sqlite.NewFoodCatalog(db, cfg.FoodDB.PageSize),
		}
		if cfg.Backend.JWTSecret != "" {
			b.tokens = auth.NewVerifier(cfg.Backend.JWTSecret)
		}
		return b, nil
	}
}

func (b *backend) close() {
	if b.db != nil {
		_ = b.db.Close()
	}
}

// signIn establishes the single stdio session.
func (b *backend) signIn(ctx context.Context, cfg config.Config) (auth.Session, error) {
	if b.client == nil {
		uid := cfg.Session.UserID
		if uid == "" {
			uid = localUserID
		}
		return auth.Session{UserID: uid, Email: cfg.Session.Email}, nil
	}

	var (
		sess auth.Session
		err  error
	)
	switch {
	case cfg.Session.AccessToken != "":
		sess, err = b.tokens.Parse(cfg.Session.AccessToken)
	case cfg.Session.Email != "" && cfg.Session.Password != "":
		sess, err = b.client.SignIn(ctx, cfg.Session.Email, cfg.Session.Password)
	default:
		return auth.Session{}, errors.New("session.access_token or session.email and session.password required")
	}
	if err != nil {
		return auth.Session{}, err
	}
	b.holder.Set(sess)
	return sess, nil
}

func newFoodDatabase(cfg config.Config, b *backend, logger *slog.Logger) food.Database {
	switch cfg.FoodDB.Provider {
	case "openfoodfacts":
		return openfoodfacts.NewClient(openfoodfacts.Options{
			BaseURL:  cfg.FoodDB.BaseURL,
			PageSize: cfg.FoodDB.PageSize,
			Timeout:  cfg.FoodDB.Timeout,
		}, logger)
	case "local":
		if b.catalog == nil {
			logger.Warn("local food database needs the sqlite backend; food search is reference-only")
			return nil
		}
		return b.catalog
	default:
		return nil
	}
}

func newRecognizer(ctx context.Context, cfg config.Config, b *backend, logger *slog.Logger) (food.Recognizer, error) {
	switch cfg.Recognition.Provider {
	case "supabase":
		if b.client == nil {
			logger.Warn("supabase recognition needs the supabase backend; image recognition disabled")
			return nil, nil
		}
		return supabase.NewRecognizer(b.client), nil
	case "rekognition":
		return awsvision.New(ctx, awsvision.Options{
			Region:        cfg.Recognition.Region,
			MinConfidence: float32(cfg.Recognition.MinConfidence),
		}, logger)
	default:
		return nil, nil
	}
}

func newPhotoStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (meal.PhotoStore, error) {
	if cfg.Storage.Bucket == "" {
		return nil, nil
	}
	return storage.New(ctx, storage.Options{
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}, logger)
}

var _ app.FoodCatalog = (*sqlite.FoodCatalog)(nil)
