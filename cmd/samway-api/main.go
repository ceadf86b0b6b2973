// README: Entry point; loads config, wires stores and collaborators, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"samway/internal/ai"
	"samway/internal/config"
	httptransport "samway/internal/http"
	"samway/internal/infra"
	"samway/internal/maps"
	"samway/internal/modules/catalog"
	"samway/internal/modules/conversation"
	"samway/internal/modules/flights"
	"samway/internal/modules/intent"
	"samway/internal/modules/quota"
	"samway/internal/modules/reasoning"
	"samway/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logFile := infra.SetupLogger(cfg.Log.Level, cfg.Log.File)
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gazetteer, err := loadGazetteer(cfg.Intent.GazetteerFile)
	if err != nil {
		log.WithError(err).Fatal("gazetteer")
	}

	deps := service.Deps{
		Detector: intent.NewDetector(gazetteer),
		Filter:   intent.NewFilter(gazetteer, cfg.Intent.FilterMode),
	}

	var generator ai.Generator
	if cfg.AI.GeminiKey != "" {
		provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, ai.Options{Model: cfg.AI.Model, Temperature: cfg.AI.Temperature})
		if err != nil {
			log.WithError(err).Fatal("gemini init")
		}
		defer provider.Close()
		generator = provider
		if cfg.AI.ComposePlan {
			deps.Composer = provider.Composer()
		}
	} else {
		log.Warn("GEMINI_API_KEY not set; every reasoning turn uses the static suggestions")
	}
	deps.Reasoner = reasoning.NewService(generator)

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("postgres")
	}
	defer dbPool.Close()
	deps.Conversations = conversation.NewService(conversation.NewStore(dbPool))
	if cfg.Quota.MonthlyMessages > 0 {
		deps.Quota = quota.NewService(quota.NewStore(dbPool), cfg.Quota.MonthlyMessages)
	}

	if mongoClient, err := infra.NewMongo(ctx, cfg.Mongo.URI); err != nil {
		log.WithError(err).Warn("mongo unavailable; catalog lookups disabled")
	} else {
		defer mongoClient.Disconnect(context.Background())
		deps.Catalog = catalog.NewService(catalog.NewStore(mongoClient.Database(cfg.Mongo.Database)))
	}

	var airportCache *flights.Cache
	if rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr); err != nil {
		log.WithError(err).Warn("redis unavailable; airport lookups are not cached")
	} else {
		defer rdb.Close()
		airportCache = flights.NewCache(rdb, cfg.Aviationstack.CacheTTL)
	}
	var flightClient *flights.Client
	if cfg.Aviationstack.AccessKey != "" {
		flightClient = flights.NewClient(flights.ClientConfig{
			BaseURL:   cfg.Aviationstack.BaseURL,
			AccessKey: cfg.Aviationstack.AccessKey,
			MaxTries:  cfg.Aviationstack.MaxTries,
		})
	}
	deps.Flights = flights.NewService(flightClient, airportCache)

	if cfg.Maps.APIKey != "" {
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			log.WithError(err).Fatal("places init")
		}
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.WithError(err).Fatal("routes init")
		}
		deps.Places, deps.Routes = places, routes
	}

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.WithError(err).Fatal("firebase init")
		}
	}

	planner, err := service.NewTripPlanner(deps)
	if err != nil {
		log.WithError(err).Fatal("trip planner")
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Planner:        planner,
		Verifier:       verifier,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	})
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("http shutdown")
		}
	}()

	log.WithFields(log.Fields{
		"addr":          cfg.HTTP.Addr,
		"auth":          verifier != nil,
		"compose_plan":  deps.Composer != nil,
		"quota_enabled": deps.Quota != nil,
	}).Info("samway api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server")
	}
}

func loadGazetteer(path string) (*intent.Gazetteer, error) {
	if path == "" {
		return intent.LoadDefault()
	}
	return intent.LoadFile(path)
}
