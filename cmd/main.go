package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outreach_admin/internal/handlers"
	"outreach_admin/internal/logger"
	"outreach_admin/internal/repository"
	"outreach_admin/internal/repository/db"
	"outreach_admin/internal/server"
	"outreach_admin/internal/service"
	"outreach_admin/internal/session"

	"github.com/spf13/viper"
)

const defaultSweepTick = 1 * time.Minute

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB and run migrations
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	sessions := session.NewStore(viper.GetDuration("session.idle_ttl"))
	services := service.NewService(repos, service.Config{
		InviteSigningKey: viper.GetString("invites.signing_key"),
		InviteTTL:        viper.GetDuration("invites.ttl"),
	}, log)
	webHandler := handlers.NewHandler(services, sessions, log, handlers.Options{
		SecureCookies: viper.GetString("env") == "production",
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// seed the first manager account on an empty database
	bootstrapAdmin(ctx, services, log)

	// start the session janitor
	go sessions.Run(ctx, defaultSweepTick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), webHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "outreach.db")
		dbPath = "outreach.db"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return db.InitDB(ctx, dbPath)
}

// bootstrapAdmin seeds a manager account when the users table is empty.
func bootstrapAdmin(ctx context.Context, services *service.Service, log *logger.Logger) {
	username := viper.GetString("bootstrap.username")
	password := viper.GetString("bootstrap.password")
	if username == "" || password == "" {
		return
	}
	if err := services.UserAdmin.Bootstrap(ctx, username, password); err != nil {
		log.Fatalw("failed to bootstrap admin account", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
