package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloggy-api/controllers"
	"bloggy-api/database"
	"bloggy-api/environment"

	"github.com/gin-gonic/gin"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/rs/zerolog/log"
)

// the visit registry is cleaned up in the background
const flushInterval = 10 * time.Minute

func main() {
	// Load Config
	cfg, err := environment.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	environment.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to main database here (mongoDB)
	mongoClient, err := database.OpenConnection(ctx, cfg.DBURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb")
	}
	defer func() { _ = database.CloseConnection(mongoClient) }()

	if err = database.EnsureIndexes(ctx, mongoClient.Database(cfg.DBName)); err != nil {
		log.Fatal().Err(err).Msg("indexes")
	}

	// connect to JWT Store (redis)
	tokens, err := database.OpenRedisConnection(ctx, cfg.CacheAddr, cfg.CachePass, cfg.JWTDB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis (tokens)")
	}
	defer tokens.Close()

	// the taxonomy cache works without redis (local level only)
	cache, err := database.OpenRedisConnection(ctx, cfg.CacheAddr, cfg.CachePass, cfg.CacheDB)
	if err != nil {
		log.Warn().Err(err).Msg("redis (cache) not available")
		cache = nil
	} else {
		defer cache.Close()
	}

	conn := environment.Connections{Mongo: mongoClient, Tokens: tokens, Cache: cache}

	// connect to Analysis-DB (influx)
	if cfg.UseAnalytics {
		var influx influxdb2.Client
		influx, err = database.OpenInfluxConnection(ctx, cfg.AnalyticsURL, cfg.AnalyticsToken)
		if err != nil {
			log.Fatal().Err(err).Msg("influxdb")
		}
		defer influx.Close()
		conn.Visits = database.NewInfluxAPI(influx, cfg.AnalyticsOrg, cfg.AnalyticsBucket)
	}

	// Initialize the services
	env, err := environment.New(cfg, conn)
	if err != nil {
		log.Fatal().Err(err).Msg("environment")
	}

	go func() {
		ticker := time.NewTicker(flushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := env.Requests.Flush(); n > 0 {
					log.Debug().Int("removed", n).Msg("visit registry flushed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handleRequests(router, controllers.NewHandler(env), cfg.CORSOrigin)

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.APIPort).Str("env", cfg.AppEnv).Msg("bloggy-api running...")
		var err error
		switch cfg.AppEnv {
		case "PRD":
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		default:
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
