package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	version  = "0.1.0"
	progName = "BM Ads back office"
	source   = "https://github.com/Fuonder/bmadsoffice"
)

var usage = func() {
	fmt.Fprintf(flag.CommandLine.Output(), "%s\nSource code:\t%s\nVersion:\t%s\nUsage of %s:\n",
		progName,
		source,
		version,
		progName)
	flag.PrintDefaults()
}

var (
	ErrNotFullIP   = errors.New("given ip address and port incorrect")
	ErrInvalidIP   = errors.New("incorrect ip address")
	ErrInvalidPort = errors.New("incorrect port number")
)

type netAddress struct {
	ipaddr string
	port   int
}

func (n *netAddress) String() string {
	return fmt.Sprintf("%s:%d", n.ipaddr, n.port)
}

func (n *netAddress) Set(value string) error {
	value = strings.TrimPrefix(value, "http://")
	values := strings.Split(value, ":")
	if len(values) != 2 {
		return fmt.Errorf("%w: \"%s\"", ErrNotFullIP, value)
	}
	n.ipaddr = values[0]
	if n.ipaddr == "" {
		return fmt.Errorf("%w: \"%s\"", ErrInvalidIP, values[0])
	}
	port, err := strconv.Atoi(values[1])
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: \"%s\"", ErrInvalidPort, values[1])
	}
	n.port = port
	return nil
}

// listValue is a comma separated flag.
type listValue []string

func (l *listValue) String() string {
	return strings.Join(*l, ",")
}

func (l *listValue) Set(value string) error {
	*l = splitList(value)
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type Flags struct {
	APIAddress     netAddress
	RemoteURL      string
	AssetURL       string
	ClientID       string
	ClientSecret   string
	DatabaseDSN    string
	RedisAddresses listValue
	RedisPassword  string
	LogLevel       string
	Key            string
	AllowedOrigins listValue
	RateLimit      float64
	RetryCount     int
	Workers        int
	CacheTTL       time.Duration
	SessionTTL     time.Duration
}

func (f *Flags) String() string {
	return fmt.Sprintf("APIAddress: %s, "+
		"RemoteURL: %s, "+
		"AssetURL: %s, "+
		"Database: %t, "+
		"Redis: %s, "+
		"LogLevel: %s, "+
		"AllowedOrigins: %s, "+
		"RateLimit: %g, "+
		"Workers: %d",
		f.APIAddress.String(),
		f.RemoteURL,
		f.AssetURL,
		f.DatabaseDSN != "",
		f.RedisAddresses.String(),
		f.LogLevel,
		f.AllowedOrigins.String(),
		f.RateLimit,
		f.Workers,
	)
}

var (
	CliOptions = Flags{
		APIAddress: netAddress{
			ipaddr: "localhost",
			port:   8080,
		},
		LogLevel:   "info",
		Workers:    4,
		CacheTTL:   5 * time.Minute,
		SessionTTL: 10 * time.Hour,
	}
)

func parseFlags() error {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	flag.Usage = usage
	flag.Var(&CliOptions.APIAddress, "a", "ip and port of server in format <ip>:<port>")
	flag.StringVar(&CliOptions.RemoteURL, "r", "", "remote api base url, e.g. https://host/api")
	flag.StringVar(&CliOptions.AssetURL, "assets", "", "static asset base url")
	flag.StringVar(&CliOptions.ClientID, "client-id", "", "remote api client id")
	flag.StringVar(&CliOptions.ClientSecret, "client-secret", "", "remote api client secret")
	flag.StringVar(&CliOptions.DatabaseDSN, "d", "", "audit database DSN, in-memory audit when empty")
	flag.Var(&CliOptions.RedisAddresses, "redis", "comma separated redis addresses, in-memory cache when empty")
	flag.StringVar(&CliOptions.LogLevel, "l", CliOptions.LogLevel, "loglevel")
	flag.StringVar(&CliOptions.Key, "k", "", "session signing key")
	flag.Var(&CliOptions.AllowedOrigins, "origins", "comma separated CORS origins")
	flag.Float64Var(&CliOptions.RateLimit, "rate", 0, "remote api requests per second, 0 disables limiting")
	flag.IntVar(&CliOptions.RetryCount, "retries", 0, "remote api retry count")
	flag.IntVar(&CliOptions.Workers, "w", CliOptions.Workers, "resync workers")
	flag.DurationVar(&CliOptions.CacheTTL, "cache-ttl", CliOptions.CacheTTL, "collection cache ttl")
	flag.DurationVar(&CliOptions.SessionTTL, "session-ttl", CliOptions.SessionTTL, "admin session lifetime")

	flag.Parse()

	return applyEnv(&CliOptions, os.Getenv)
}

// applyEnv lets environment variables override flags.
func applyEnv(f *Flags, getenv func(string) string) error {
	if v := getenv("RUN_ADDRESS"); v != "" {
		if err := f.APIAddress.Set(v); err != nil {
			return err
		}
	}
	if v := getenv("API_BASE_URL"); v != "" {
		f.RemoteURL = v
	}
	if v := getenv("ASSET_BASE_URL"); v != "" {
		f.AssetURL = v
	}
	if v := getenv("API_CLIENT_ID"); v != "" {
		f.ClientID = v
	}
	if v := getenv("API_CLIENT_SECRET"); v != "" {
		f.ClientSecret = v
	}
	if v := getenv("DATABASE_URI"); v != "" {
		f.DatabaseDSN = v
	}
	if v := getenv("REDIS_ADDRESS"); v != "" {
		f.RedisAddresses = splitList(v)
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		f.RedisPassword = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		f.LogLevel = v
	}
	if v := getenv("SECRET"); v != "" {
		f.Key = v
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		f.AllowedOrigins = splitList(v)
	}
	if v := getenv("API_RATE_LIMIT"); v != "" {
		rl, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("API_RATE_LIMIT %q: %w", v, err)
		}
		f.RateLimit = rl
	}
	if v := getenv("RESYNC_WORKERS"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RESYNC_WORKERS %q: %w", v, err)
		}
		f.Workers = w
	}

	if f.RemoteURL == "" {
		return errors.New("remote api base url is required (-r or API_BASE_URL)")
	}
	if f.Key == "" {
		return errors.New("session signing key is required (-k or SECRET)")
	}
	return nil
}
