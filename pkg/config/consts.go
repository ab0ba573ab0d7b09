package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "SHOP_APP_ENV"
	EnvPort     = "SHOP_APP_PORT"
	EnvDBDSN    = "SHOP_DB_DSN"
	EnvDBHost   = "SHOP_DB_HOST"
	EnvDBUser   = "SHOP_DB_USER"
	EnvDBName   = "SHOP_DB_NAME"
	EnvRedisURL = "SHOP_REDIS_URL"

	EnvGatewayMerchantID = "SHOP_GATEWAY_MERCHANT_ID"
	EnvGatewayUsername   = "SHOP_GATEWAY_USERNAME"
	EnvGatewayPassword   = "SHOP_GATEWAY_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
