package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/shiftboard/backend/internal/types"
)

// DynamoDBStore implements Store using AWS DynamoDB, one table per
// logical collection. Saving a collection rewrites it wholesale to match
// the load-all/save-all contract.
type DynamoDBStore struct {
	client *dynamodb.Client
	config DynamoConfig
	logger zerolog.Logger
}

// settingsID keys the single settings record
const settingsID = "app"

type settingsRecord struct {
	ID string
	types.Settings
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == DynamoModeLocal {
		// For local mode, build the client directly without LoadDefaultConfig.
		// LoadDefaultConfig probes the EC2 IMDS endpoint which hangs when
		// static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}

	// Create tables in local mode
	if cfg.Mode == DynamoModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Str("table_prefix", cfg.TablePrefix).
		Msg("DynamoDB store initialized")

	return store, nil
}

func (s *DynamoDBStore) LoadAgents() ([]types.Agent, error) {
	var agents []types.Agent
	if err := s.scanAll(collectionAgents, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (s *DynamoDBStore) SaveAgents(agents []types.Agent) error {
	items := make([]any, len(agents))
	ids := make([]string, len(agents))
	for i, a := range agents {
		items[i] = a
		ids[i] = a.ID
	}
	return s.replaceAll(collectionAgents, items, ids)
}

func (s *DynamoDBStore) LoadCamps() ([]types.Camp, error) {
	var camps []types.Camp
	if err := s.scanAll(collectionCamps, &camps); err != nil {
		return nil, err
	}
	return camps, nil
}

func (s *DynamoDBStore) SaveCamps(camps []types.Camp) error {
	items := make([]any, len(camps))
	ids := make([]string, len(camps))
	for i, c := range camps {
		items[i] = c
		ids[i] = c.ID
	}
	return s.replaceAll(collectionCamps, items, ids)
}

func (s *DynamoDBStore) LoadUsers() ([]types.User, error) {
	var users []types.User
	if err := s.scanAll(collectionUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *DynamoDBStore) SaveUsers(users []types.User) error {
	items := make([]any, len(users))
	ids := make([]string, len(users))
	for i, u := range users {
		items[i] = u
		ids[i] = u.ID
	}
	return s.replaceAll(collectionUsers, items, ids)
}

func (s *DynamoDBStore) LoadReports() ([]types.Report, error) {
	var reports []types.Report
	if err := s.scanAll(collectionReports, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *DynamoDBStore) SaveReports(reports []types.Report) error {
	items := make([]any, len(reports))
	ids := make([]string, len(reports))
	for i, r := range reports {
		items[i] = r
		ids[i] = r.ID
	}
	return s.replaceAll(collectionReports, items, ids)
}

func (s *DynamoDBStore) LoadSettings() (types.Settings, error) {
	result, err := s.client.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String(s.config.tableName(collectionSettings)),
		Key: map[string]dbtypes.AttributeValue{
			"ID": &dbtypes.AttributeValueMemberS{Value: settingsID},
		},
	})
	if err != nil {
		return types.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if result.Item == nil {
		return types.DefaultSettings(), nil
	}

	var record settingsRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return types.Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return record.Settings, nil
}

func (s *DynamoDBStore) SaveSettings(settings types.Settings) error {
	item, err := attributevalue.MarshalMap(settingsRecord{ID: settingsID, Settings: settings})
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = s.client.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String(s.config.tableName(collectionSettings)),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// scanAll reads every item of a collection table into out, which must be
// a pointer to a slice.
func (s *DynamoDBStore) scanAll(collection string, out any) error {
	tableName := s.config.tableName(collection)

	var items []map[string]dbtypes.AttributeValue
	var lastKey map[string]dbtypes.AttributeValue
	for {
		input := &dynamodb.ScanInput{TableName: aws.String(tableName)}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(context.Background(), input)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", tableName, err)
		}
		items = append(items, result.Items...)

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", tableName, err)
	}
	return nil
}

// replaceAll rewrites a collection table: stale items are deleted, the
// given items are put. Not atomic across batches; the service layer
// serializes writers.
func (s *DynamoDBStore) replaceAll(collection string, items []any, ids []string) error {
	tableName := s.config.tableName(collection)

	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	stale, err := s.scanStaleIDs(tableName, keep)
	if err != nil {
		return err
	}

	var requests []dbtypes.WriteRequest
	for _, id := range stale {
		requests = append(requests, dbtypes.WriteRequest{
			DeleteRequest: &dbtypes.DeleteRequest{
				Key: map[string]dbtypes.AttributeValue{
					"ID": &dbtypes.AttributeValueMemberS{Value: id},
				},
			},
		})
	}
	for _, item := range items {
		marshalled, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item for %s: %w", tableName, err)
		}
		requests = append(requests, dbtypes.WriteRequest{
			PutRequest: &dbtypes.PutRequest{Item: marshalled},
		})
	}

	// BatchWriteItem accepts at most 25 requests
	for i := 0; i < len(requests); i += 25 {
		end := i + 25
		if end > len(requests) {
			end = len(requests)
		}
		_, err := s.client.BatchWriteItem(context.Background(), &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]dbtypes.WriteRequest{
				tableName: requests[i:end],
			},
		})
		if err != nil {
			return fmt.Errorf("failed to write batch to %s: %w", tableName, err)
		}
	}
	return nil
}

// scanStaleIDs returns the ids present in the table but absent from keep
func (s *DynamoDBStore) scanStaleIDs(tableName string, keep map[string]bool) ([]string, error) {
	var stale []string
	var lastKey map[string]dbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:            aws.String(tableName),
			ProjectionExpression: aws.String("#id"),
			ExpressionAttributeNames: map[string]string{
				"#id": "ID",
			},
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(context.Background(), input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys of %s: %w", tableName, err)
		}

		for _, item := range result.Items {
			if v, ok := item["ID"].(*dbtypes.AttributeValueMemberS); ok && !keep[v.Value] {
				stale = append(stale, v.Value)
			}
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}
	return stale, nil
}
