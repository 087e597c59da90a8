package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-agent/internal/config"
	"github.com/adanyl0v/go-todo-agent/internal/delivery/http/v1"
	"github.com/adanyl0v/go-todo-agent/internal/metrics"
)

func NewRouter(a *App) *gin.Engine {
	if a.Config.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	v1Handler := v1.New(
		globalLogger,
		a.Tasks,
		a.Agent,
		a.Store,
		a.Config.HTTP.AllowedOrigins,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(v1Handler.HandleRequestID)
	router.Use(v1Handler.HandleRequestLogging)
	router.Use(v1Handler.HandleMetrics)
	if len(a.Config.HTTP.AllowedOrigins) > 0 {
		router.Use(newCORS(a.Config.HTTP.AllowedOrigins))
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	v1.RegisterRoutes(router, v1Handler)
	return router
}

func newCORS(allowedOrigins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.ExposeHeaders = []string{"X-Request-ID"}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
			return cors.New(corsCfg)
		}
	}
	corsCfg.AllowOrigins = allowedOrigins
	return cors.New(corsCfg)
}

func MustListenAndServeHTTP(a *App) {
	httpCfg := a.Config.HTTP

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           NewRouter(a),
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}
