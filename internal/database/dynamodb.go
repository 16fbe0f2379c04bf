package database

import (
	"context"
	"fmt"

	"shopfront/internal/config"
	"shopfront/internal/dynamo"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

// CategoryIndex is the global secondary index on the products table's
// category attribute.
const CategoryIndex = "category-index"

// NewDynamoClient creates a DynamoDB client. When an endpoint is configured
// (DynamoDB Local) the static credentials from the configuration are used;
// otherwise the default AWS credential chain applies.
func NewDynamoClient(ctx context.Context, cfg config.DynamoDBConfig, logger zerolog.Logger) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info().
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Msg("DynamoDB client initialised")

	return client, nil
}

// ProductsTableInput describes the products table: partition key id and a
// global secondary index on category.
func ProductsTableInput(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("category"), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(CategoryIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("category"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}

// CartsTableInput describes the carts table: one item per user_id.
func CartsTableInput(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("user_id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("user_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}

// EnsureDynamoTables creates the products and carts tables if missing.
func EnsureDynamoTables(ctx context.Context, api dynamo.API, cfg config.DynamoDBConfig, logger zerolog.Logger) error {
	for _, input := range []*dynamodb.CreateTableInput{
		ProductsTableInput(cfg.ProductsTable),
		CartsTableInput(cfg.CartsTable),
	} {
		if err := dynamo.EnsureTable(ctx, api, input, logger); err != nil {
			return err
		}
	}
	return nil
}
