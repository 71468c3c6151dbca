package config

import "time"

// Chat definition chat_service YAML structure
type Chat struct {
	Port     string `mapstructure:"port"`
	GRPCPort string `mapstructure:"grpc_port"`

	// JWTSecret shared HMAC key of the auth service that issues member tokens
	JWTSecret string `mapstructure:"jwt_secret"`

	Notifier NotifierConfig `mapstructure:"notifier"`

	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
}

// NotifierConfig realtime fan-out setting
type NotifierConfig struct {
	// BufferSize per subscription channel size, a full channel drops the push
	BufferSize int `mapstructure:"buffer_size"`
	// UseRedis fan out through redis pub/sub so every chat node gets the message
	UseRedis bool `mapstructure:"use_redis"`
	// UserCacheTTL how long display names stay in redis
	UserCacheTTL time.Duration `mapstructure:"user_cache_ttl"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
	// Addr used when no sentinel is configured
	Addr string `mapstructure:"addr"`
}

// KafkaConfig definition activity event topic
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryCount    int      `mapstructure:"retry_count"`
	RetryInterval int      `mapstructure:"retry_interval"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
