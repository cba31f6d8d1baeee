package main

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"office-portal/core"
	"office-portal/pkg/resources"
	"office-portal/pkg/servers"
)

func main() {
	var err error

	name, version, env := "office-portal", "1.0", "local"

	// 1. Config
	resources.Configure()

	// 2. Logger base
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().
		Str("service", name).Str("version", version).Str("env", env).
		Logger()

	ctx := log.Logger.WithContext(context.Background())

	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	secret := viper.GetString("JWT_SECRET")
	if secret == "" {
		shutdownLogger.Fatal().Msg("JWT_SECRET is required")
	}

	// 3. Telemetry (traces/metrics/logs)
	stopTelemetryFn, err := resources.CreateTelemetry(ctx, name, version, env)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup otel telemetry")
	}
	defer stopTelemetryFn(ctx, 15*time.Second)

	// 4. Bridge zerolog -> OTel Logs (still prints to stdout; additionally exports via OTLP to the collector)
	log.Logger = log.Logger.Hook(resources.NewZerologHook(name))
	ctx = log.Logger.WithContext(ctx)

	// 5. Core resources
	pool, err := resources.CreateDatabaseConnectionPool(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to create database connection pool")
	}

	// 6. Wiring
	repository := core.NewRepository(pool)
	scheduler := core.NewScheduler(repository)
	handlers := core.NewHandlers(scheduler)

	// 7. Daemons/servers setup

	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.Default()
	restHandler.Use(otelgin.Middleware(name))
	restHandler.Use(resources.NewHTTPMetrics(name).Middleware())
	restHandler.Use(resources.RequestIdMiddleware())

	authorized := restHandler.Group("/", core.IdentityMiddleware(secret))
	authorized.POST("/events", handlers.PostEvents)
	authorized.GET("/events", handlers.GetEvents)
	authorized.GET("/events/:id", handlers.GetEvent)
	authorized.PATCH("/events/:id/status", handlers.PatchEventStatus)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 8. Daemons/servers lifecycle

	app := lifecycle.NewApp(
		lifecycle.WithName(name),
		lifecycle.WithVersion(version),
		lifecycle.WithSignal(syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT),
	)

	app.Attach("base-server", servers.NewBaseServer(pool))

	debugServer := &http.Server{
		Addr:              net.JoinHostPort(viper.GetString("DEBUG_HOST"), viper.GetString("DEBUG_PORT")),
		Handler:           debugHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.Attach("debug-server", servers.NewHttpServer("debug-server", debugServer))

	restServer := &http.Server{
		Addr:              net.JoinHostPort(viper.GetString("HTTP_HOST"), viper.GetString("HTTP_PORT")),
		Handler:           restHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.Attach("rest-server", servers.NewHttpServer("rest-server", restServer))

	startupLogger.Info().Msg("application running")

	// 9. Run until shutdown signal

	err = app.Run()
	if err != nil {
		shutdownLogger.Error().Err(err).Msg("runtime error")
	}
}
