package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	LogLevel    string
	CORSOrigins []string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret          string
	JWTExpiration      time.Duration
	JWTRefreshDuration time.Duration

	MpesaBaseURL        string
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortCode      string
	MpesaPassKey        string
	MpesaCallbackURL    string

	OverdueSweep time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads a .env file when one exists, then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loanpap"),
		MySQLUser: getenv("MYSQL_USER", "loanpap"),
		MySQLPass: getenv("MYSQL_PASS", "loanpap"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiration:      time.Duration(getint("JWT_EXPIRATION_MINUTES", 60)) * time.Minute,
		JWTRefreshDuration: time.Duration(getint("JWT_REFRESH_EXPIRATION_HOURS", 168)) * time.Hour,

		MpesaBaseURL:        getenv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		MpesaConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		MpesaConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		MpesaShortCode:      getenv("MPESA_SHORTCODE", "174379"),
		MpesaPassKey:        os.Getenv("MPESA_PASSKEY"),
		MpesaCallbackURL:    os.Getenv("MPESA_CALLBACK_URL"),

		OverdueSweep: time.Duration(getint("OVERDUE_SWEEP_MINUTES", 60)) * time.Minute,
	}
	for _, o := range strings.Split(getenv("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.JWTExpiration <= 0 || c.JWTRefreshDuration <= 0 {
		return errors.New("JWT expirations must be positive")
	}
	if c.OverdueSweep <= 0 {
		return errors.New("OVERDUE_SWEEP_MINUTES must be positive")
	}
	return nil
}

// MpesaEnabled reports whether STK push credentials are configured.
func (c *Config) MpesaEnabled() bool {
	return c.MpesaConsumerKey != "" && c.MpesaConsumerSecret != "" && c.MpesaPassKey != ""
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
