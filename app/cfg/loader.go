package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"feedvault_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"feedvault_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"feedvault" description:"Database name"`

	// Elevated-role credentials; when set, batch writes get a privileged first tier
	AdminDBUser     string `long:"admin-db-user" env:"ADMIN_DB_USER" description:"Elevated database role for privileged batch writes (optional)"`
	AdminDBPassword string `long:"admin-db-password" env:"ADMIN_DB_PASSWORD" description:"Password for the elevated database role"`

	// Application configuration
	SeedsDir          string `long:"seeds-dir" env:"SEEDS_DIR" default:"./seeds" description:"Directory containing source seed files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for source syncing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	CleanupInterval   int    `long:"cleanup-interval" env:"CLEANUP_INTERVAL" default:"86400" description:"Retention sweep interval in seconds"`
	RetentionDays     int    `long:"retention-days" env:"RETENTION_DAYS" default:"30" description:"Default item retention in days for scheduled sweeps"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Outbound collaborators
	ProxyURL     string  `long:"proxy-url" env:"PROXY_URL" description:"Intermediary fetch service used as fallback when direct fetches fail (optional)"`
	SearchURL    string  `long:"search-url" env:"SEARCH_URL" description:"Channel search service endpoint for resolving handles (optional)"`
	SearchAPIKey string  `long:"search-api-key" env:"SEARCH_API_KEY" description:"API key for the channel search service"`
	FetchTimeout int     `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-request fetch timeout in seconds"`
	FetchRate    float64 `long:"fetch-rate" env:"FETCH_RATE" default:"5" description:"Maximum outbound fetch requests per second"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"FeedVault/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:            raw.DBHost,
		DBPort:            raw.DBPort,
		DBUser:            raw.DBUser,
		DBPassword:        raw.DBPassword,
		DBName:            raw.DBName,
		AdminDBUser:       raw.AdminDBUser,
		AdminDBPassword:   raw.AdminDBPassword,
		SeedsDir:          raw.SeedsDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		CleanupInterval:   raw.CleanupInterval,
		RetentionDays:     raw.RetentionDays,
		APIAccessKey:      raw.APIAccessKey,
		ProxyURL:          raw.ProxyURL,
		SearchURL:         raw.SearchURL,
		SearchAPIKey:      raw.SearchAPIKey,
		FetchTimeout:      raw.FetchTimeout,
		FetchRate:         raw.FetchRate,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
