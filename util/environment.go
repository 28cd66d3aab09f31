package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type roundServerEnvironment struct {
	RedisHost string
	RedisPort string
	RedisPW   string
	RedisDB   string
	NatsURL   string
	LogLevel  string
}

// RoundServerEnvironment is a helper object for accessing environment variables.
var RoundServerEnvironment = &roundServerEnvironment{
	RedisHost: "REDIS_HOST",
	RedisPort: "REDIS_PORT",
	RedisPW:   "REDIS_PW",
	RedisDB:   "REDIS_DB",
	NatsURL:   "NATS_URL",
	LogLevel:  "LOG_LEVEL",
}

const defaultNatsURL = "nats://localhost:4222"

func (r *roundServerEnvironment) GetRedisHost() (string, error) {
	host := os.Getenv(r.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", r.RedisHost)
		environmentLogger.Error().Msg(msg)
		return "", errors.New(msg)
	}
	return host, nil
}

func (r *roundServerEnvironment) GetRedisPort() (int, error) {
	portStr := os.Getenv(r.RedisPort)
	if portStr == "" {
		msg := fmt.Sprintf("%s is not defined", r.RedisPort)
		environmentLogger.Error().Msg(msg)
		return 0, errors.New(msg)
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis port %s", portStr)
		environmentLogger.Error().Msg(msg)
		return 0, errors.New(msg)
	}
	return portNum, nil
}

// GetRedisAddr returns host:port, or an error when either part is missing.
func (r *roundServerEnvironment) GetRedisAddr() (string, error) {
	host, err := r.GetRedisHost()
	if err != nil {
		return "", err
	}
	port, err := r.GetRedisPort()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", host, port), nil
}

func (r *roundServerEnvironment) GetRedisPW() string {
	return os.Getenv(r.RedisPW)
}

func (r *roundServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(r.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		environmentLogger.Warn().Msgf("Invalid Redis db %s. Using db 0", dbStr)
		return 0
	}
	return dbNum
}

func (r *roundServerEnvironment) GetNatsURL() string {
	url := os.Getenv(r.NatsURL)
	if url == "" {
		return defaultNatsURL
	}
	return url
}

func (r *roundServerEnvironment) GetLogLevel() string {
	return os.Getenv(r.LogLevel)
}
