package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "FARM2FORK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "FARM2FORK_DB_DSN"
	EnvDBHost = "FARM2FORK_DB_HOST"
	EnvDBUser = "FARM2FORK_DB_USER"
	EnvDBName = "FARM2FORK_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
