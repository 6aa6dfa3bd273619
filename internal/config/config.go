package config

import (
	"os"
	"strconv"
)

type Config struct {
	Env             string
	Port            string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	TokenTTLDays    int
	RedisAddr       string
	RateLimitPerMin int

	RabbitURL      string
	RabbitExchange string
	ChatReplyQueue string
	ChatReplyDelay int // milliseconds

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	OAuthStateSecret   string
}

func Load() Config {
	return Config{
		Env:             getenv("APP_ENV", "development"),
		Port:            getenv("APP_PORT", "8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "domainmart"),
		JWTSecret:       getenv("JWT", "default_secret_key"),
		TokenTTLDays:    atoi(getenv("TOKEN_TTL_DAYS", "7")),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "10")),

		RabbitURL:      getenv("RABBIT_URL", ""),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "market.events"),
		ChatReplyQueue: getenv("CHAT_REPLY_QUEUE", "chat-replies"),
		ChatReplyDelay: atoi(getenv("CHAT_REPLY_DELAY_MS", "1000")),

		GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getenv("GOOGLE_REDIRECT_URI", ""),
		OAuthStateSecret:   getenv("OAUTH_STATE_SECRET", "state_secret"),
	}
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
