package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"ENV" env-default:"local"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer HttpServer
	Limiter    Limiter
	Auth       AuthConfig
	Storage    Storage
	Database   Database
	Cache      Cache
}

type HttpServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	BcryptCost     int           `env:"AUTH_BCRYPT_COST" env-default:"10"`
	OTPLength      int           `env:"AUTH_OTP_LENGTH" env-default:"6"`
	OTPTTL         time.Duration `env:"AUTH_OTP_TTL" env-default:"5m"`
	OTPMaxAttempts int           `env:"AUTH_OTP_MAX_ATTEMPTS" env-default:"5"`
	DiscloseOTP    bool          `env:"AUTH_DISCLOSE_OTP" env-default:"false" env-description:"include the plaintext code in responses, never enable in production"`
}

type Storage struct {
	UsersBackend string `env:"STORAGE_USERS_BACKEND" env-default:"memory" env-description:"one of memory/mysql"`
	OTPBackend   string `env:"STORAGE_OTP_BACKEND" env-default:"memory" env-description:"one of memory/redis"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-default:"127.0.0.1:3306"`
	DBName             string        `env:"DB_NAME" env-default:"signupflow"`
	User               string        `env:"DB_USER" env-default:"root"`
	Password           string        `env:"DB_PASSWORD" env-default:""`
	TimeZone           string        `env:"DB_TIMEZONE"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
}

type Cache struct {
	Address  string `env:"REDIS_ADDR" env-default:"127.0.0.1:6379" env-description:"redis host:port"`
	Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
	PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
