package config

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "SHOPFLOOR_DB_DSN"
	EnvDBHost = "SHOPFLOOR_DB_HOST"
	EnvDBUser = "SHOPFLOOR_DB_USER"
	EnvDBName = "SHOPFLOOR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
