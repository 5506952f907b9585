package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "GOLMARKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "GOLMARKET_APP_ENV"
	EnvPort     = "GOLMARKET_APP_PORT"
	EnvDBDSN    = "GOLMARKET_DB_DSN"
	EnvDBHost   = "GOLMARKET_DB_HOST"
	EnvDBUser   = "GOLMARKET_DB_USER"
	EnvDBName   = "GOLMARKET_DB_NAME"
	EnvRedisURL = "GOLMARKET_REDIS_URL"

	EnvJWTSecret = "GOLMARKET_JWT_SECRET"
	EnvJWTIssuer = "GOLMARKET_JWT_ISSUER"

	EnvWhatsAppPhone = "GOLMARKET_WHATSAPP_PHONE"

	EnvRESTBaseURL = "GOLMARKET_REST_BASE_URL"
	EnvRESTToken   = "GOLMARKET_REST_TOKEN"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
