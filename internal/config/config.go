package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses timeout durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings for identifiers and secrets, ints and
// durations for limits and timeouts.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	MasterSheetURL  string        // default roster CSV export URL (may be empty until an admin sets one)
	AdminPassword   string        // shared admin password, compared for exact equality
	JWTSecret       string        // secret used to sign admin session tokens
	AdminTokenTTL   int           // admin token time-to-live in minutes
	LogFile         string        // path of the CSV meal log
	LogStoreBackend string        // "csv" or "mysql"
	FetchTimeout    time.Duration // upper bound on a roster fetch
	QueueConsumer   bool          // run the attendance event consumer in-process
	DBUser          string        // database username (mysql backend only)
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The database block
// is only required when the mysql log backend is selected.
func Load() Config {
	cfg := Config{
		Env:             getenv("APP_ENV", "dev"),
		Port:            getenv("APP_PORT", "8080"),
		MasterSheetURL:  os.Getenv("MASTER_SHEET_CSV_URL"), // empty allowed; admin can override per session
		AdminPassword:   must("ADMIN_PASSWORD"),
		JWTSecret:       must("JWT_SECRET"),
		AdminTokenTTL:   mustInt("ADMIN_TOKEN_TTL_MIN", "60"),
		LogFile:         getenv("LOG_FILE", "meal_log.csv"),
		LogStoreBackend: getenv("LOG_STORE", "csv"),
		FetchTimeout:    time.Duration(mustInt("FETCH_TIMEOUT_SEC", "15")) * time.Second,
		QueueConsumer:   getenv("QUEUE_CONSUMER_ENABLED", "false") == "true",
	}
	if cfg.LogStoreBackend == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or def when unset/empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// mustInt reads an integer variable, falling back to def when unset.  A
// value that fails to parse is a configuration error and exits.
func mustInt(key, def string) int {
	s := getenv(key, def)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Fatalf("env var %s must be a positive integer, got %q", key, s)
	}
	return n
}
