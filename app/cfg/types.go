package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Source platform (Reddit) API credentials
	RedditClientID     string
	RedditClientSecret string

	// Engagement platform (X) API credentials
	XBearerToken string

	// Generative collaborator
	AnthropicAPIKey string
	AnthropicModel  string

	// Harvester configuration
	ChannelsFile      string
	PageSize          int
	SourcePaceMS      int
	EngagementPaceMS  int
	RequestTimeoutSec int

	// HTTP server configuration
	Port              string
	APIAccessKey      string
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
