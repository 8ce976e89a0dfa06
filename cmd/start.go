package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/mystylekpop/snsbot/internal/calendar"
	"github.com/mystylekpop/snsbot/internal/config"
	"github.com/mystylekpop/snsbot/internal/content"
	"github.com/mystylekpop/snsbot/internal/control"
	"github.com/mystylekpop/snsbot/internal/draft"
	"github.com/mystylekpop/snsbot/internal/insights"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/notify"
	"github.com/mystylekpop/snsbot/internal/orchestrator"
	"github.com/mystylekpop/snsbot/internal/pending"
	"github.com/mystylekpop/snsbot/internal/publish"
	"github.com/mystylekpop/snsbot/internal/queue"
	"github.com/mystylekpop/snsbot/internal/scheduler"
	"github.com/mystylekpop/snsbot/internal/storage"
	"github.com/mystylekpop/snsbot/internal/telegram"
)

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler and the Telegram review channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []config.LoaderOption
			if configFile != "" {
				opts = append(opts, config.WithConfigFile(configFile))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logOpts := []logger.Option{logger.WithFormat(cfg.LogFormat)}
	if cfg.Debug {
		logOpts = append(logOpts, logger.WithDebug())
	}
	ctx = logger.WithLogger(ctx, logger.NewLogger(logOpts...))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Durable store: sqlite when configured, in-memory otherwise.
	var store storage.DocumentStore
	if cfg.Database.Path != "" {
		sqlStore, err := storage.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		store = sqlStore
	} else {
		logger.Warn(ctx, "no database path configured, state will not survive restarts")
		store = storage.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(ctx, "store close failed", "err", err)
		}
	}()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram connect: %w", err)
	}
	logger.Info(ctx, "telegram connected", "account", api.Self.UserName)

	notifier := notify.NewTelegram(api, cfg.Telegram.AdminChatID, cfg.Location)
	ctrl := control.New(store)
	bot := telegram.New(api, cfg.Telegram.AdminChatID, ctrl)

	cal := calendar.New(cfg.Location)
	bot.SetCalendar(cal)

	q := queue.New(store, cfg.Location)
	registry := pending.New(store, pending.WithTTL(cfg.PendingTTL))

	generator := content.NewChain(
		content.NewLLMGenerator(cfg.Content.Endpoint, cfg.Content.APIKey, cfg.CallTimeout),
		content.NewTemplateGenerator(time.Now().UnixNano()),
	)
	images := content.NewImageClient(cfg.Image.Endpoint, cfg.Image.APIKey, cfg.CallTimeout)

	publisher := publish.NewRouter(map[draft.Platform]publish.Publisher{
		draft.PlatformX:         publish.NewXClient(cfg.X.BaseURL, cfg.X.BearerToken, cfg.CallTimeout),
		draft.PlatformInstagram: publish.NewIGClient(cfg.IG.BaseURL, cfg.IG.AccessToken, cfg.IG.UserID, cfg.CallTimeout),
	})

	orch := orchestrator.New(cal, q, registry, generator, images, publisher, notifier, bot,
		orchestrator.WithCallTimeout(cfg.CallTimeout))
	bot.AttachPipeline(orch)

	// Recover state from before the restart. The process starts even
	// when recovery fails; the operator is notified inside Restore.
	if err := ctrl.Restore(ctx); err != nil {
		logger.Error(ctx, "control restore failed", "err", err)
		notifier.Notify(ctx, "🚨 재시작 복구 실패: 스케줄러 일시정지 상태를 복원하지 못했습니다.")
	}
	orch.Restore(ctx)
	registry.StartSweeper(ctx)

	sched := scheduler.New(cfg.Location, ctrl, notifier)
	jobs := scheduler.Timetable(orch, insights.New(cfg.Insights.Endpoint, cfg.Insights.APIKey, cfg.CallTimeout), notifier, cfg.Location, nil)
	if err := sched.Register(jobs...); err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	logger.Info(ctx, "snsbot started", "timezone", cfg.Timezone)
	bot.Run(ctx)
	return nil
}
