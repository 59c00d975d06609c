package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DioGolang/GoTodo/configs"
	"github.com/DioGolang/GoTodo/internal/application/usecase/todo"
	"github.com/DioGolang/GoTodo/internal/infra/database"
	"github.com/DioGolang/GoTodo/internal/infra/web"
	"github.com/DioGolang/GoTodo/internal/infra/web/handler"
	"github.com/DioGolang/GoTodo/internal/infra/web/middleware"
	"github.com/DioGolang/GoTodo/pkg/logger"
	"github.com/DioGolang/GoTodo/pkg/metrics"
	"github.com/DioGolang/GoTodo/pkg/otel"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	startedAt := time.Now()

	config, err := configs.LoadConfig(".")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	info := otel.ServiceInfo{
		Name:        config.AppName,
		Version:     config.AppVersion,
		Environment: config.Environment,
	}
	shutdownTracer, err := otel.InitProvider(ctx, info, config.OTLPEndpoint)
	if err != nil {
		return err
	}
	logProvider, shutdownLogs, err := otel.InitLogProvider(ctx, info, config.OTLPEndpoint)
	if err != nil {
		return err
	}

	logOpts := []logger.Option{logger.WithLevel(config.LogLevel)}
	if logProvider != nil {
		logOpts = append(logOpts, logger.WithCore(
			otelzap.NewCore(config.AppName, otelzap.WithLoggerProvider(logProvider)),
		))
	}
	log := logger.NewLogger(config.AppName, config.IsProduction(), logOpts...)

	registry := metrics.NewRegistry(
		metrics.WithConstLabels(map[string]string{"service": config.AppName}),
		metrics.WithRuntimeCollectors(),
	)
	appMetrics, err := metrics.NewPrometheusMetrics(registry, config.AppVersion)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	appMetrics.OnError = func(err error) {
		log.Warn(context.Background(), "metric update failed", logger.WithError(err))
	}

	repo := database.NewMemoryTodoRepository()
	refresher := todo.NewGaugeRefresher(repo, appMetrics)
	if err := refresher.Refresh(ctx); err != nil {
		return err
	}

	createUseCase := &todo.CreateTodoMetricsDecorator{
		Next:    todo.NewCreateUseCase(repo, appMetrics, refresher),
		Metrics: appMetrics,
	}
	toggleUseCase := todo.ToggleTodoMetricsDecorator{
		Next:    todo.NewToggleUseCase(repo, appMetrics, refresher),
		Metrics: appMetrics,
	}
	deleteUseCase := todo.DeleteTodoMetricsDecorator{
		Next:    todo.NewDeleteUseCase(repo, appMetrics, refresher),
		Metrics: appMetrics,
	}
	statsUseCase := todo.NewStatsUseCase(repo)

	instrumenter := middleware.NewInstrumenter(appMetrics, log,
		middleware.WithCollapseUnmatched(config.CollapseUnmatch))

	readiness, err := handler.NewReadinessHandler(config.AppName, config.AppVersion, handler.WithTodoStore(repo))
	if err != nil {
		return fmt.Errorf("failed to build readiness check: %w", err)
	}

	router := web.NewRouter(web.RouterConfig{
		ServiceName:     config.AppName,
		AllowedOrigins:  config.AllowedOrigins,
		CSPExtraOrigins: config.CSPExtraOrigins,
		MaxBodyBytes:    config.MaxBodyBytes,
		RateLimitWindow: config.RateLimitWindow,
		RateLimitAPI:    config.RateLimitAPI,
		RateLimitMutate: config.RateLimitMutate,
		TrustProxy:      config.TrustProxy,
	}, instrumenter, appMetrics, log, web.Handlers{
		Todo: handler.NewTodoHandler(createUseCase, todo.NewListUseCase(repo), todo.NewGetUseCase(repo),
			toggleUseCase, deleteUseCase, statsUseCase, log),
		Info: handler.NewInfoHandler(handler.AppInfo{
			Name:           config.AppName,
			Version:        config.AppVersion,
			Environment:    config.Environment,
			DeploymentTime: config.DeploymentTime,
			StartedAt:      startedAt,
		}, statsUseCase, instrumenter, log),
		Liveness:  handler.NewLivenessHandler(startedAt),
		Readiness: readiness,
		Metrics:   registry.Handler(),
	})

	server := &http.Server{
		Addr:              ":" + config.WebServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gCtx, "server running",
			logger.String("port", config.WebServerPort),
			logger.String("version", config.AppVersion),
			logger.String("environment", config.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		// Telemetry is flushed after the server so in-flight requests are exported.
		return errors.Join(
			server.Shutdown(shutdownCtx),
			shutdownTracer(shutdownCtx),
			shutdownLogs(shutdownCtx),
		)
	})

	return g.Wait()
}
