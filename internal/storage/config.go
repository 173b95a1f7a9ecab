package storage

import "os"

// DynamoMode represents the DynamoDB connection mode
type DynamoMode string

const (
	DynamoModeLocal DynamoMode = "local"
	DynamoModeAWS   DynamoMode = "aws"
	DynamoModeNone  DynamoMode = "none"
)

// DynamoConfig holds DynamoDB configuration
type DynamoConfig struct {
	Mode        DynamoMode
	Endpoint    string // for local mode
	Region      string
	TablePrefix string
}

// LoadDynamoConfig loads DynamoDB config from environment
func LoadDynamoConfig() DynamoConfig {
	mode := DynamoMode(getEnv("DYNAMO_MODE", "none"))
	if mode != DynamoModeLocal && mode != DynamoModeAWS {
		mode = DynamoModeNone
	}

	return DynamoConfig{
		Mode:        mode,
		Endpoint:    getEnv("DYNAMO_ENDPOINT", "http://localhost:8000"),
		Region:      getEnv("DYNAMO_REGION", "eu-central-1"),
		TablePrefix: getEnv("DYNAMO_TABLE_PREFIX", "shiftboard"),
	}
}

// collections persisted as individual tables
const (
	collectionAgents   = "agents"
	collectionCamps    = "camps"
	collectionUsers    = "users"
	collectionReports  = "reports"
	collectionSettings = "settings"
)

func (c DynamoConfig) tableName(collection string) string {
	return c.TablePrefix + "-" + collection
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
