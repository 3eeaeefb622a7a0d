package main // Entry point package

import (
	"context" // context for the one-off schema check
	"log"     // Logging library
	"time"    // session TTL arithmetic

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/attendance"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/config"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/database"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/handler"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/logstore"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/queue"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/roster"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/router"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/session"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	// The meal log: flat CSV file by default, MySQL when configured.
	var store logstore.Store
	switch cfg.LogStoreBackend {
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.EnsureLogTable(ctx, db); err != nil {
			cancel()
			log.Fatalf("meal_log schema check failed: %v", err)
		}
		cancel()
		store = logstore.NewMySQLStore(db)
		log.Printf("log store: mysql (%s)", cfg.DBName)
	case "csv":
		store = logstore.NewCSVStore(cfg.LogFile)
		log.Printf("log store: csv (%s)", cfg.LogFile)
	default:
		log.Fatalf("unknown LOG_STORE backend: %q", cfg.LogStoreBackend)
	}

	// Session store for admin source overrides; degrades to in-process
	// when Redis is not reachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; session overrides are in-process only")
	}
	sessions := session.New(rdb, time.Duration(cfg.AdminTokenTTL)*time.Minute)

	loader := roster.New(cfg.FetchTimeout)
	recorder := attendance.NewRecorder(store)

	// Optional in-process consumer mirroring recorded attendance to a
	// human-readable log via the broker.
	if cfg.QueueConsumer {
		go func() {
			if err := queue.StartAttendanceConsumer(); err != nil {
				log.Printf("attendance consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAttendance(e, handler.NewAttendanceHandler(cfg, loader, recorder))
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, loader, store, sessions), cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
