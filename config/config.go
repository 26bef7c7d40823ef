package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Queue    QueueConfig
	Order    OrderConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// 啟動時建立的管理員帳號，留空則略過
	AdminUsername string
	AdminPassword string
}

// QueueConfig 對帳事件佇列設定；Driver 為 memory 或 redis
type QueueConfig struct {
	Driver             string
	BufferSize         int
	ConsumerID         string
	ClaimMinIdleTime   time.Duration
	MaxRetryCount      int
	ReadGroupBlockTime time.Duration
	StreamMaxLen       int64
}

type OrderConfig struct {
	// 退票手續費率(百分比)，呼叫端未帶時使用
	DefaultRefundFeeRate float64
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env 不存在時忽略，直接讀環境變數
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Auth:     GetAuthConfig(),
		Queue:    GetQueueConfig(),
		Order:    GetOrderConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
		MaxConns: 10,
		MinConns: 1,
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "test"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth: AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
		Queue: QueueConfig{
			Driver:             "memory",
			BufferSize:         100,
			ClaimMinIdleTime:   100 * time.Millisecond,
			MaxRetryCount:      3,
			ReadGroupBlockTime: 100 * time.Millisecond,
		},
		Order: OrderConfig{DefaultRefundFeeRate: 5},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
		MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

func GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:  getEnv("JWT_SECRET", "change-me"),
		TokenTTL:   getEnvDuration("JWT_TTL", 24*time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

func GetQueueConfig() QueueConfig {
	return QueueConfig{
		Driver:             getEnv("QUEUE_DRIVER", "redis"),
		BufferSize:         getEnvInt("QUEUE_BUFFER_SIZE", 1000),
		ConsumerID:         getEnv("QUEUE_CONSUMER_ID", ""),
		ClaimMinIdleTime:   getEnvDuration("QUEUE_CLAIM_MIN_IDLE", 5*time.Second),
		MaxRetryCount:      getEnvInt("QUEUE_MAX_RETRY", 5),
		ReadGroupBlockTime: getEnvDuration("QUEUE_BLOCK_TIME", 2*time.Second),
		StreamMaxLen:       int64(getEnvInt("QUEUE_STREAM_MAXLEN", 10000)),
	}
}

func GetOrderConfig() OrderConfig {
	rate, err := strconv.ParseFloat(getEnv("REFUND_FEE_RATE", "5"), 64)
	if err != nil {
		panic(err)
	}
	return OrderConfig{DefaultRefundFeeRate: rate}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		panic(err)
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
