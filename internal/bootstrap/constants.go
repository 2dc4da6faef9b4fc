package bootstrap

// Log messages for startup and shutdown
const (
	LogMsgShuttingDown        = "Shutting down"
	LogMsgServerForcedStop    = "Server forced to shutdown"
	LogMsgFinalFlushFailed    = "Final ledger flush failed"
	LogMsgStopped             = "Stopped"
	LogMsgStoreConnected      = "Ledger store connected"
	LogMsgCatalogLoaded       = "Job catalog loaded"
	LogMsgLedgerLoaded        = "Ledger loaded"
	LogMsgEconomyLogOnly      = "No economy endpoint configured, payouts will be logged only"
)
