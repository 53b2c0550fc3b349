package constants

type contextKey string

const (
	AppKey       contextKey = "app"
	PoolKey      contextKey = "pool"
	TxKey        contextKey = "tx"
	TenantIDKey  contextKey = "tenantID"
	ActorKey     contextKey = "actor"
	LoggerKey    contextKey = "logger"
	RequestStart contextKey = "requestStart"
)
