package server

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	domsvc "TrendScan/internal/domain/service"
	"TrendScan/internal/handler/api"
	"TrendScan/internal/repository"
	icache "TrendScan/internal/service/cache"
	"TrendScan/internal/service/yahoo"
	"TrendScan/internal/usecase"
	pkgcache "TrendScan/pkg/cache"
	pkgch "TrendScan/pkg/clickhouse"
	"TrendScan/pkg/config"
	xhttp "TrendScan/pkg/http"
	pkgkafka "TrendScan/pkg/kafka"
	applogger "TrendScan/pkg/logger"
	"TrendScan/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.TickCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	jobQueue    *queue.RedisQueue
	jobStore    *pkgcache.RedisCache
	TickProc    *usecase.TickProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	// Setup Echo HTTP server using pkg/http and register routes via handler
	httpHandler := a.httpHandler
	if httpHandler == nil && a.chClient != nil {
		h, err := a.buildBacktestHandler(l)
		if err != nil {
			l.Error("backtest handler setup error", applogger.Error(err))
			return err
		}
		httpHandler = h
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector when the realtime stream is configured
	if a.collector != nil && a.cfg.Stream.Enabled {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start job queue workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			l.Error("job queue start error", applogger.Error(err))
			return err
		}
		a.jobQueue.StartRetryProcessor()
		l.Info("job queue started")
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// buildBacktestHandler assembles the bar store, provider, use cases and the
// Echo handler, plus the optional Redis cache and job queue.
func (a *App) buildBacktestHandler(l *applogger.Logger) (*api.BacktestHandler, error) {
	store := repository.NewCHBarStore(a.chClient)
	store.SetLogger(l)

	var provider domsvc.BarProvider
	if a.cfg.Yahoo.Enabled {
		opts := []xhttp.ClientOption{}
		if a.cfg.Yahoo.Timeout > 0 {
			opts = append(opts, xhttp.WithTimeout(a.cfg.Yahoo.Timeout))
		}
		yopts := []yahoo.Option{yahoo.WithLogger(l)}
		if a.cfg.Yahoo.BaseURL != "" {
			yopts = append(yopts, yahoo.WithBaseURL(a.cfg.Yahoo.BaseURL))
		}
		provider = yahoo.New(xhttp.NewClient(opts...), yopts...)
	}

	btUC := usecase.NewBacktestUseCase(provider, store)
	btUC.SetLogger(l)
	barsUC := usecase.NewBarsUseCase(provider, store)

	h := api.NewBacktestHandler(l, btUC, barsUC)

	if a.cfg.Backtest.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     a.cfg.Backtest.Redis.Addr,
			Password: a.cfg.Backtest.Redis.Password,
			DB:       a.cfg.Backtest.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}

	if a.cfg.Queue.Enabled && a.cfg.Backtest.Redis.Enabled {
		host, port := splitAddr(a.cfg.Backtest.Redis.Addr)
		jobStore, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(a.cfg.Backtest.Redis.Password),
			pkgcache.WithRedisDB(a.cfg.Backtest.Redis.DB),
		)
		if err != nil {
			return nil, err
		}
		a.jobStore = jobStore

		job := usecase.NewBacktestJob(btUC, jobStore, l)
		a.jobQueue = queue.NewRedisConsumer(l, &queue.QueueConfig{
			Workers:    a.cfg.Queue.Workers,
			QueueSize:  a.cfg.Queue.QueueSize,
			RetryLimit: a.cfg.Queue.RetryLimit,
			RetryDelay: a.cfg.Queue.RetryDelay,
		}, jobStore.Client(), []queue.Job{job})
		h.SetQueue(a.jobQueue, jobStore)
	}

	return h, nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if a.collector != nil && a.cfg.Stream.Enabled {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop job queue workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}
	if a.jobStore != nil {
		if err := a.jobStore.Close(); err != nil {
			l.Warn("job store close error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close tick processor resources (publisher/storage)
	if a.TickProc != nil {
		a.TickProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}
