package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Elevated-role credentials for the privileged write path (optional)
	AdminDBUser     string
	AdminDBPassword string

	// Application configuration
	SeedsDir          string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	CleanupInterval   int
	RetentionDays     int
	APIAccessKey      string

	// Outbound collaborators
	ProxyURL     string
	SearchURL    string
	SearchAPIKey string
	FetchTimeout int
	FetchRate    float64

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
