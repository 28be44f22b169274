package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags holds the values of the configuration flags bound to a command's
// flag set. Values are read after the command line has been parsed.
//
// Flags:
//
//	-a, --address          API base URL
//	    --request-timeout  request timeout (e.g. "30s")
//	    --rate-limit       outgoing requests per second
//	    --rate-burst       outgoing request burst
//	-d, --db               local state database path
//	    --log-file         log file path
//	    --log-level        log level
//	    --provider         default playground provider
//	    --model            default playground model
//	-c, --config           JSON or TOML config file path
type Flags struct {
	address        string
	requestTimeout time.Duration
	rateLimit      float64
	rateBurst      int
	dbPath         string
	logFile        string
	logLevel       string
	provider       string
	model          string
	configPath     string
}

// BindFlags registers the configuration flags on fs, typically a cobra
// command's persistent flag set.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.StringVarP(&f.address, "address", "a", "", "API base URL")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.Float64Var(&f.rateLimit, "rate-limit", 0, "Outgoing requests per second")
	fs.IntVar(&f.rateBurst, "rate-burst", 0, "Outgoing request burst")
	fs.StringVarP(&f.dbPath, "db", "d", "", "Local state database path")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.provider, "provider", "", "Default playground provider")
	fs.StringVar(&f.model, "model", "", "Default playground model")
	fs.StringVarP(&f.configPath, "config", "c", "", "JSON or TOML config file path")

	return f
}

func (f *Flags) config() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    f.address,
			RequestTimeout: Duration(f.requestTimeout),
			RateLimit:      f.rateLimit,
			RateBurst:      f.rateBurst,
		},
		Storage: Storage{
			DB: DB{DSN: f.dbPath},
		},
		Log: Log{
			FilePath: f.logFile,
			Level:    f.logLevel,
		},
		Playground: Playground{
			Provider: f.provider,
			Model:    f.model,
		},
		ConfigFilePath: f.configPath,
	}
}
