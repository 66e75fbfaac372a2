package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port           string
	Env            string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      []byte
	TokenTTL       time.Duration
	UploadDir      string
	Currency       string
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// Development reports whether the service runs with development defaults.
func (c Config) Development() bool {
	return c.Env == "development"
}

// Load reads .env when present, then the process environment.
func Load() (Config, bool) {
	loaded := godotenv.Load() == nil

	cfg := Config{
		Port:           port(getenv("PORT", "8080")),
		Env:            getenv("APP_ENV", "production"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "jpos"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getint("REDIS_DB", 0),
		JWTSecret:      []byte(getenv("JWT_SECRET", "change-me")),
		TokenTTL:       getduration("TOKEN_TTL", 12*time.Hour),
		UploadDir:      getenv("UPLOAD_DIR", "./static/productpic"),
		Currency:       getenv("CURRENCY_SYMBOL", "$"),
		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 10),
		AllowedOrigins: getlist("CORS_ORIGINS", []string{"*"}),
	}
	return cfg, loaded
}

func port(p string) string {
	if p[0] != ':' {
		return ":" + p
	}
	return p
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getfloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func getduration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getlist(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
