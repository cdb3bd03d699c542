package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	alerthandler "crowdguard/backend/internal/alert/handler"
	alertrepo "crowdguard/backend/internal/alert/repository"
	"crowdguard/backend/internal/audit"
	audithandler "crowdguard/backend/internal/audit/handler"
	auditrepo "crowdguard/backend/internal/audit/repository"
	"crowdguard/backend/internal/config"
	dashboardhandler "crowdguard/backend/internal/dashboard/handler"
	"crowdguard/backend/internal/db"
	"crowdguard/backend/internal/health"
	identityhandler "crowdguard/backend/internal/identity/handler"
	identityservice "crowdguard/backend/internal/identity/service"
	invitationhandler "crowdguard/backend/internal/invitation/handler"
	invitationrepo "crowdguard/backend/internal/invitation/repository"
	"crowdguard/backend/internal/mailer"
	membershiphandler "crowdguard/backend/internal/membership/handler"
	membershiprepo "crowdguard/backend/internal/membership/repository"
	organizationhandler "crowdguard/backend/internal/organization/handler"
	organizationrepo "crowdguard/backend/internal/organization/repository"
	patrolrepo "crowdguard/backend/internal/patrol/repository"
	quicklinkhandler "crowdguard/backend/internal/quicklink/handler"
	quicklinkrepo "crowdguard/backend/internal/quicklink/repository"
	"crowdguard/backend/internal/security"
	"crowdguard/backend/internal/server"
	"crowdguard/backend/internal/telemetry/otel"
	userhandler "crowdguard/backend/internal/user/handler"
	userrepo "crowdguard/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "crowdguard-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	signer, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("JWT_PRIVATE_KEY: %v", err)
	}
	pub, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("JWT_PUBLIC_KEY: %v", err)
	}
	tokens := security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	users := userrepo.NewPostgresRepository(conn)
	orgs := organizationrepo.NewPostgresRepository(conn)
	memberships := membershiprepo.NewPostgresRepository(conn)
	invitations := invitationrepo.NewPostgresRepository(conn)
	alerts := alertrepo.NewPostgresRepository(conn)
	quickLinks := quicklinkrepo.NewPostgresRepository(conn)
	patrols := patrolrepo.NewPostgresRepository(conn)
	auditLogs := auditrepo.NewPostgresRepository(conn)

	authService := identityservice.NewAuthService(users, hasher, tokens)
	dispatcher := mailer.NewHTTPDispatcher(cfg.MailServiceURL, cfg.FrontendURL)
	auditLogger := audit.NewLogger(auditLogs)

	router := server.NewRouter(server.Deps{
		Logger:         logger,
		Health:         health.New(conn),
		Identity:       identityhandler.New(authService),
		Users:          userhandler.New(users),
		Organizations:  organizationhandler.New(orgs, memberships),
		Memberships:    membershiphandler.New(memberships, users),
		Invitations:    invitationhandler.New(orgs, memberships, users, invitations, dispatcher),
		Alerts:         alerthandler.New(alerts, memberships),
		QuickLinks:     quicklinkhandler.New(quickLinks, memberships),
		Dashboard:      dashboardhandler.New(alerts, patrols, memberships),
		AuditLogs:      audithandler.New(auditLogs, memberships),
		Tokens:         tokens,
		Resolver:       authService,
		AuditLogger:    auditLogger,
		TracerProvider: providers.TracerProvider,
		MeterProvider:  providers.MeterProvider,
		CORSOrigins:    cfg.CORSOrigins(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
