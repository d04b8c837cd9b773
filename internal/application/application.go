package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"empire_trader/internal/config"
	"empire_trader/internal/domain/entity"
	"empire_trader/internal/domain/service/tracker"
	"empire_trader/internal/infrastructure/desktop"
	"empire_trader/internal/infrastructure/empire"
	"empire_trader/internal/infrastructure/notifier"
	"empire_trader/internal/infrastructure/persistence"
	"empire_trader/internal/infrastructure/steam"
	"empire_trader/internal/infrastructure/stream"
	"empire_trader/internal/server"
	"empire_trader/internal/worker"
	"empire_trader/pkg/application/connectors"
	"empire_trader/pkg/application/modules"
	"empire_trader/pkg/logx"
	"empire_trader/pkg/middlewarex"
)

const (
	notificationBuffer = 256
	logFieldMaxLen     = 2048
	readHeaderTimeout  = 5 * time.Second
)

func Run(ctx context.Context, log *slog.Logger) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	accounts, err := config.LoadAccounts(cfg.App.AccountsPath)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	log.Info("loaded accounts", "count", len(accounts))

	// 2. Notifications
	queue := notifier.NewQueue(notificationBuffer)

	alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
	if err != nil {
		return fmt.Errorf("notifier bot: %w", err)
	}
	if err := alertBot.SendText(ctx, "Empire trader is starting."); err != nil {
		log.Error("bot self-test failed, check token and chat id", "error", err)
	}

	go func() {
		if err := alertBot.Run(ctx, queue.Notifications()); err != nil && ctx.Err() == nil {
			log.Error("notifier stopped", "error", err)
		}
	}()

	// 3. Marketplace clients
	registry := empire.NewRegistry(accounts)

	// 4. Optional trade log
	trackerOpts := []tracker.Option{tracker.WithRetryDelay(cfg.Session.RetryDelay)}

	var tradeRepo *persistence.TradeLogRepository
	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(ctx)

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("db ping: %w", err)
		}
		log.Info("database connection OK")

		tradeRepo = persistence.NewTradeLogRepository(db)
		if err := tradeRepo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		trackerOpts = append(trackerOpts, tracker.WithTradeLog(tradeRepo))
	} else {
		log.Info("trade log disabled, no PG_DSN")
	}

	// 5. Tracker
	trk := tracker.NewTracker(queue, registry, steam.NewOfferClient(), desktop.NewOpener(), trackerOpts...)

	g, ctx := errgroup.WithContext(ctx)

	// 6. Per-account sessions, staggered so a restart does not open
	// every connection at once.
	for i := range accounts {
		account := &accounts[i]
		trk.Register(account)

		delay := time.Duration(i) * cfg.Session.StartDelay
		g.Go(func() error {
			return runSession(ctx, log, cfg.Session, account, registry, trk, queue, delay)
		})
	}

	// 7. Status API
	statusServer := server.NewServer(trk, registry, nil)
	if tradeRepo != nil {
		statusServer = server.NewServer(trk, registry, tradeRepo)
	}

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
		middlewarex.Recovery,
	)
	statusServer.RegisterRoutes(router)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	})
	modules.MetricServer{ListenAddress: cfg.HTTP.MetricsListenAddress}.Run(ctx, g)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	log.Info("application started", "accounts", len(accounts))

	return g.Wait()
}

// runSession keeps one account connected for the process lifetime,
// reconnecting with a fixed delay after stream failures.
func runSession(
	ctx context.Context,
	log *slog.Logger,
	cfg config.Session,
	account *entity.Account,
	registry *empire.Registry,
	handler *tracker.Tracker,
	queue *notifier.Queue,
	initialDelay time.Duration,
) error {
	if err := sleep(ctx, initialDelay); err != nil {
		return err
	}

	client, err := registry.Client(account.UserID)
	if err != nil {
		return fmt.Errorf("registry.Client: %w", err)
	}

	userAgent := fmt.Sprintf("%d API Bot", account.UserID)

	for {
		str := stream.NewClient(account.Origin, userAgent, log)
		session := worker.NewSession(account, str, client, handler, queue,
			worker.WithKeepAlive(cfg.KeepAlive),
			worker.WithPriceCeiling(cfg.PriceCeiling),
		)

		err := session.Run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Error("session ended, reconnecting",
			"account", account.UserID, "error", err, "delay", cfg.StartDelay)

		if err := sleep(ctx, cfg.StartDelay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
