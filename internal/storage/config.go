package storage

import "os"

// StoreMode selects the record store backend
type StoreMode string

const (
	StoreModeMemory StoreMode = "memory"
	StoreModeSQLite StoreMode = "sqlite"
	StoreModeLocal  StoreMode = "local" // DynamoDB local
	StoreModeAWS    StoreMode = "aws"
)

// StoreConfig holds record store configuration
type StoreConfig struct {
	Mode         StoreMode
	SQLitePath   string
	Endpoint     string // DynamoDB local endpoint
	Region       string
	RecordsTable string
}

// LoadStoreConfig loads record store config from environment
func LoadStoreConfig() StoreConfig {
	mode := StoreMode(getEnv("STORE_MODE", string(StoreModeMemory)))
	switch mode {
	case StoreModeSQLite, StoreModeLocal, StoreModeAWS:
	default:
		mode = StoreModeMemory
	}

	return StoreConfig{
		Mode:         mode,
		SQLitePath:   getEnv("SQLITE_PATH", "callboard.db"),
		Endpoint:     getEnv("DYNAMO_ENDPOINT", "http://localhost:8000"),
		Region:       getEnv("DYNAMO_REGION", "eu-central-1"),
		RecordsTable: getEnv("DYNAMO_RECORDS_TABLE", "callboard-user-analytics"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
