package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bcgov/notify/internal/config"
	"github.com/bcgov/notify/internal/delivery"
	"github.com/bcgov/notify/internal/gcnotify"
	"github.com/bcgov/notify/internal/identity"
	"github.com/bcgov/notify/internal/notify"
	"github.com/bcgov/notify/internal/notifytype"
	"github.com/bcgov/notify/internal/server"
	"github.com/bcgov/notify/internal/template"
	"github.com/bcgov/notify/internal/template/render"
	"github.com/bcgov/notify/internal/tenant"
	"github.com/bcgov/notify/internal/transport"
	"github.com/bcgov/notify/pkg/database"
	"github.com/bcgov/notify/pkg/observability"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger("notify-api")

	shutdownTracer, err := observability.InitTracer(context.Background(), observability.Config{
		ServiceName:    "notify-api",
		ServiceVersion: "1.0.0",
		Endpoint:       cfg.OTLPEndpoint,
		Environment:    cfg.Environment,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer shutdownTracer(context.Background())

	// Stores: in-memory by default, Postgres-backed when DATABASE_URL is set.
	var templateStore template.Store = template.NewInMemoryStore()
	var senderStore identity.Store = identity.NewInMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		tStore := template.NewPostgresStore(db)
		sStore := identity.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := tStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure templates schema: %v", err)
		}
		if err := sStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure senders schema: %v", err)
		}
		cancel()
		templateStore = tStore
		senderStore = sStore
	}

	var defaultsStore tenant.Store = tenant.NewInMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store := tenant.NewRedisStore(rdb)
		if err := store.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defaultsStore = store
	}

	registry := render.NewRegistry(cfg.DefaultTemplateEngine,
		render.NewJinja2Renderer(),
		render.NewHandlebarsRenderer(),
		render.NewMustacheRenderer(),
		render.NewGoTemplateRenderer(),
	)

	transports := transport.NewRegistry(cfg.EmailAdapter, cfg.SMSAdapter)
	transports.RegisterEmail(transport.NewSMTPTransport(cfg.SMTP))
	transports.RegisterEmail(transport.NewCHESTransport(cfg.CHES))
	transports.RegisterEmail(transport.NewResendTransport(cfg.Resend))
	transports.RegisterSMS(transport.NewTwilioTransport(cfg.Twilio))

	templateSvc := template.NewService(templateStore)
	resolver := template.NewStoreResolver(templateStore)
	identitySvc := identity.NewService(senderStore)
	notifyTypeSvc := notifytype.NewService(notifytype.NewStore())
	defaultsSvc := tenant.NewService(defaultsStore)

	contextResolver := delivery.NewContextResolver(
		defaultsSvc, cfg.EmailAdapter, cfg.SMSAdapter, cfg.DefaultTemplateEngine)
	adapterResolver := delivery.NewAdapterResolver(transports)

	gcClient := gcnotify.NewClient(cfg.GCNotifyBaseURL)
	gcSvc := gcnotify.NewService(
		cfg, adapterResolver, gcClient, templateSvc, resolver, registry, identitySvc)
	notifySvc := notify.NewService(
		cfg, adapterResolver, identitySvc, notifyTypeSvc, defaultsSvc, resolver, registry)

	if cfg.SeedDemoData {
		seedDemoData(templateSvc, identitySvc)
	}

	srv := server.NewServer(
		cfg, gcSvc, notifySvc, templateSvc, identitySvc, notifyTypeSvc, defaultsSvc, contextResolver)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Router(),
	}

	logger.Info("Notify API starting", "port", cfg.Port,
		"email_adapter", cfg.EmailAdapter, "sms_adapter", cfg.SMSAdapter,
		"template_engine", cfg.DefaultTemplateEngine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down Notify API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Notify API stopped")
}

// seedDemoData loads a starter template and a default sender so a fresh
// instance can take a test send immediately.
func seedDemoData(templates *template.Service, identities *identity.Service) {
	ctx := context.Background()

	if _, err := templates.CreateTemplate(ctx, &template.CreateRequest{
		Name:    "Demo welcome email",
		Type:    template.ChannelEmail,
		Subject: "Welcome, {{ name }}",
		Body:    "Hi {{ name }}, this is a demo notification.",
		Engine:  "jinja2",
	}); err != nil {
		log.Printf("Failed to seed demo template: %v", err)
	}

	isDefault := true
	if _, err := identities.CreateSender(ctx, &identity.CreateRequest{
		Type:         identity.TypeEmail,
		EmailAddress: "demo@notify.local",
		IsDefault:    &isDefault,
	}); err != nil {
		log.Printf("Failed to seed demo sender: %v", err)
	}
}
