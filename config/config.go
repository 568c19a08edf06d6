package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const DefaultDBUrl = "qsurvey.sqlite"

type Config struct {
	Host  string
	Port  uint
	Addr  string
	DBUrl string
	Debug bool

	// remote forms provider; blank credentials select the dry-run provider
	FormsCredentialsFile string
	FormURLTemplate      string

	// notification transport; blank host logs messages instead of sending them
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
	NotifyRetries     int
	NotifyMinInterval time.Duration
}

func (cfg *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.Host, "host", "0.0.0.0", "listen host name")
	fs.UintVar(&cfg.Port, "port", 80, "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", "", "path to SQLite3 DB file (default qsurvey.sqlite)")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")

	fs.StringVar(&cfg.FormsCredentialsFile, "forms-credentials", "", "Google API credentials JSON file (empty: dry run)")
	fs.StringVar(&cfg.FormURLTemplate, "form-url-template", "https://docs.google.com/forms/d/{form_id}/edit", "viewable form URL, {form_id} is replaced")

	fs.StringVar(&cfg.SMTPHost, "smtp-host", "", "SMTP server host (empty: log notifications only)")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", 587, "SMTP server port")
	fs.StringVar(&cfg.SMTPUsername, "smtp-username", "", "SMTP user name (prefer env SMTP_USERNAME)")
	fs.StringVar(&cfg.SMTPPassword, "smtp-password", "", "SMTP password (prefer env SMTP_PASSWORD)")
	fs.StringVar(&cfg.SMTPFrom, "smtp-from", "", "sender address of notifications (default: smtp-username)")
	fs.IntVar(&cfg.NotifyRetries, "notify-retries", 3, "delivery retries after a failed notification")
	fs.DurationVar(&cfg.NotifyMinInterval, "notify-min-interval", time.Second, "first delay between delivery retries")
}

// Resolve reads the optional .env file, fills blank settings from the
// environment, derives Addr and validates the result.
func (cfg *Config) Resolve() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading .env: %w", err)
	}

	fromEnv(&cfg.DBUrl, "QSURVEY_DB_URL")
	if cfg.DBUrl == "" {
		cfg.DBUrl = DefaultDBUrl
	}
	fromEnv(&cfg.FormsCredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	fromEnv(&cfg.SMTPHost, "SMTP_HOST")
	fromEnv(&cfg.SMTPUsername, "SMTP_USERNAME")
	fromEnv(&cfg.SMTPPassword, "SMTP_PASSWORD")
	fromEnv(&cfg.SMTPFrom, "SMTP_FROM")
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}

	cfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))

	return cfg.Validate()
}

// Validate reports every invalid setting at once.
func (cfg Config) Validate() error {
	var result *multierror.Error

	if cfg.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("-port %d out of range", cfg.Port))
	}
	if cfg.DBUrl == "" {
		result = multierror.Append(result, errors.New("missing parameter -db-url"))
	}
	if !strings.Contains(cfg.FormURLTemplate, "{form_id}") {
		result = multierror.Append(result, errors.New("-form-url-template must contain {form_id}"))
	}
	if cfg.SMTPHost != "" {
		if cfg.SMTPFrom == "" {
			result = multierror.Append(result, errors.New("missing parameter -smtp-from (or SMTP_USERNAME)"))
		}
		if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
			result = multierror.Append(result, fmt.Errorf("-smtp-port %d out of range", cfg.SMTPPort))
		}
	}
	if cfg.NotifyRetries < 0 {
		result = multierror.Append(result, errors.New("-notify-retries cannot be negative"))
	}

	return result.ErrorOrNil()
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func fromEnv(dst *string, key string) {
	if *dst != "" {
		return
	}
	*dst = os.Getenv(key)
}
