package configuration

import "github.com/adampresley/configinator"

type Config struct {
	CatApiBaseURL         string `flag:"catapi" env:"CAT_API_BASE_URL" default:"https://api.thecatapi.com" description:"Base URL for The Cat API"`
	CatApiKey             string `flag:"catapikey" env:"CAT_API_KEY" default:"" description:"API key sent to The Cat API in the x-api-key header"`
	CookieSecret          string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DiscardStaleResponses bool   `flag:"discardstale" env:"DISCARD_STALE_RESPONSES" default:"false" description:"Ignore image responses that were superseded by a newer request"`
	Host                  string `flag:"host" env:"HOST" default:"localhost:8080" description:"The address and port to bind the HTTP server to"`
	LogLevel              string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxFetchWorkers       int    `flag:"mfw" env:"MAX_FETCH_WORKERS" default:"4" description:"Maximum number of concurrent Cat API requests per viewer"`
	MaxViewers            int    `flag:"maxviewers" env:"MAX_VIEWERS" default:"500" description:"Maximum number of viewer galleries kept in memory"`
	RenderWaitSeconds     int    `flag:"rws" env:"RENDER_WAIT_SECONDS" default:"10" description:"How long a page waits for in-flight fetches before rendering"`
	RequestTimeoutSeconds int    `flag:"rts" env:"REQUEST_TIMEOUT_SECONDS" default:"15" description:"Timeout for each Cat API request"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
