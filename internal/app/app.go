// Package app wires configuration, storage, and HTTP routing into the
// reporting server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/catalog"
	"github.com/recoveryfit/corpreport/internal/config"
	"github.com/recoveryfit/corpreport/internal/db"
	adminapi "github.com/recoveryfit/corpreport/internal/http/api/admin"
	"github.com/recoveryfit/corpreport/internal/http/api/events"
	"github.com/recoveryfit/corpreport/internal/ratelimit"
	"github.com/recoveryfit/corpreport/internal/report"
	"github.com/recoveryfit/corpreport/internal/store"
	log "github.com/sirupsen/logrus"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the reporting API server with database-backed
// components and blocks until the context is cancelled.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	jwtConfig, _ := config.LoadJWTConfig(configPath)
	reportConfig, errReport := config.LoadReportConfig(configPath)
	if errReport != nil {
		return errReport
	}
	ingestToken := config.LoadIngestToken(configPath)

	src := store.NewGormSource(conn)
	invoices := report.NewInvoiceMap(reportConfig.InvoiceMap)
	svc := report.NewService(src, invoices, reportConfig.ActiveStatuses)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	rateCfg := ratelimit.LoadConfig(configPath)
	limiter := ratelimit.NewManager(func() ratelimit.Config { return rateCfg }, nil, nil)

	adminapi.RegisterAdminRoutes(engine, conn, jwtConfig, reportConfig, svc, src)
	events.RegisterEventRoutes(engine, src, ingestToken, limiter)
	if ingestToken == "" {
		log.Warn("ingest token not configured, login ingest disabled")
	}

	if syncer := catalog.NewSyncer(conn, catalog.LoadConfig(configPath)); syncer != nil {
		syncer.Start(ctx)
	}

	port := config.LoadServerPort(configPath, defaultPort)
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("server shutdown error: %v", errShutdown)
		}
	}()

	log.Infof("starting reporting server on %s with config=%s", addr, configPath)
	if errListen := srv.ListenAndServe(); errListen != nil && errListen != http.ErrServerClosed {
		return errListen
	}
	return nil
}

// corsMiddleware enables permissive CORS for the admin console.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Ingest-Token")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
