package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/rs/zerolog"
)

// emailKey is the partition key attribute of the records table
const emailKey = "Email"

// DynamoDBStore implements Store using AWS DynamoDB
type DynamoDBStore struct {
	client *dynamodb.Client
	config StoreConfig
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg StoreConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == StoreModeLocal {
		// For local mode, build the client directly without LoadDefaultConfig.
		// LoadDefaultConfig probes the EC2 IMDS endpoint which hangs on EC2
		// instances when static credentials are intended.
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
		logger: logger.With().Str("component", "dynamodb_store").Logger(),
	}

	// Create the table in local mode
	if cfg.Mode == StoreModeLocal {
		if err := CreateTableIfNotExist(ctx, client, cfg.RecordsTable, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Str("table", cfg.RecordsTable).
		Msg("DynamoDB store initialized")

	return store, nil
}

func (s *DynamoDBStore) Find(ctx context.Context, email string) (*types.Record, error) {
	key, err := attributevalue.MarshalMap(map[string]string{emailKey: email})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.RecordsTable),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to get record")
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, ErrNotFound
	}

	var record types.Record
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("stored record has an unexpected shape")
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &record, nil
}

func (s *DynamoDBStore) Insert(ctx context.Context, record types.Record) error {
	record = withCreatedAt(record)
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name(emailKey))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.config.RecordsTable),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *dbtypes.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrAlreadyExists
		}
		s.logger.Error().Err(err).Str("email", record.Email).Msg("failed to insert record")
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (s *DynamoDBStore) Update(ctx context.Context, email string, data types.ChartData, updatedAt time.Time) error {
	key, err := attributevalue.MarshalMap(map[string]string{emailKey: email})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	update := expression.
		Set(expression.Name("ChartData"), expression.Value(data)).
		Set(expression.Name("UpdatedAt"), expression.Value(FormatTimestamp(updatedAt)))
	cond := expression.AttributeExists(expression.Name(emailKey))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.RecordsTable),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *dbtypes.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to update record")
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

func (s *DynamoDBStore) Close() error { return nil }

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, cfg StoreConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Mode {
	case StoreModeLocal, StoreModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	case StoreModeSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, logger)
	default:
		logger.Info().Msg("using in-memory record store (STORE_MODE=memory)")
		return NewMemoryStore(), nil
	}
}
