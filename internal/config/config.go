package config

// Environment variable keys.
const (
	ENV_KEY_PORT           = "PORT"
	ENV_KEY_LOG_LEVEL      = "LOG_LEVEL"
	ENV_KEY_APP_IDENTIFIER = "APP_IDENTIFIER"

	ENV_KEY_DB_DATABASE             = "DB_DATABASE"
	ENV_KEY_DB_PASSWORD             = "DB_PASSWORD"
	ENV_KEY_DB_USER                 = "DB_USER"
	ENV_KEY_DB_PORT                 = "DB_PORT"
	ENV_KEY_DB_HOST                 = "DB_HOST"
	ENV_KEY_DB_MAX_OPEN_CONNECTIONS = "DB_MAX_OPEN_CONNECTIONS"

	ENV_KEY_REDIS_HOST     = "REDIS_HOST"
	ENV_KEY_REDIS_PORT     = "REDIS_PORT"
	ENV_KEY_REDIS_PASSWORD = "REDIS_PASSWORD"

	ENV_KEY_USER_CACHE_TTL_SECONDS = "USER_CACHE_TTL_SECONDS"
	ENV_KEY_WORKER_CONCURRENCY     = "WORKER_CONCURRENCY"
)

type ContextKey uint

const (
	_ ContextKey = iota
	CTX_KEY_USER_UID
)
