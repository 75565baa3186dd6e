package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskflow/internal/adapter/auth"
	dbadapter "taskflow/internal/adapter/db"
	"taskflow/internal/adapter/redisstore"
	"taskflow/internal/adapter/taskstore"
	"taskflow/internal/app/engine"
	appservice "taskflow/internal/app/service"
	"taskflow/internal/config"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/pkg/translator"
)

// backend is the read side the view commands need.
type backend struct {
	views ports.ViewService
	users ports.UserDirectory
	close func()
}

// openBackend is replaced in tests.
var openBackend = connectBackend

func connectBackend(ctx context.Context, logger *zap.Logger) (*backend, error) {
	cfg := config.LoadConfig()
	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{cfg.DefaultLanguage, translator.LanguageEn, translator.LanguageFr, translator.LanguageTr},
	})

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}
	redisClient, err := redisstore.Connect(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	store := taskstore.New(
		dbadapter.NewTaskRepository(db),
		redisstore.NewChangeFeed(redisClient, "", logger),
		logger,
		taskstore.WithMaxRefreshRate(cfg.FeedMaxRefreshPerSecond),
	)
	go func() {
		if err := store.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("change feed stopped", zap.Error(err))
		}
	}()
	registry := engine.NewRegistry(store, logger)

	return &backend{
		views: appservice.NewViewService(registry, cfg.SLAThresholds(), time.Now),
		users: auth.NewService(dbadapter.NewUserRepository(db), cfg.JWTSecret),
		close: func() {
			registry.Close()
			cancel()
			_ = redisClient.Close()
			_ = db.Close()
		},
	}, nil
}

// principalFor resolves the --user flag to the identity whose views are shown.
func principalFor(ctx context.Context, cmd *cobra.Command, b *backend) (domain.Principal, error) {
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		return domain.Principal{}, errors.New("--user is required")
	}
	user, err := b.users.GetUser(ctx, userID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("look up user %s: %w", userID, err)
	}
	return user.Principal(), nil
}
