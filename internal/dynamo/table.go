// Package dynamo wraps the DynamoDB item operations used by the
// repositories: single-item get/put/update/delete plus scans and queries
// that follow LastEvaluatedKey until the result set is exhausted.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

// Item is a DynamoDB item keyed by attribute name.
type Item = map[string]types.AttributeValue

// API is the subset of *dynamodb.Client used by this package.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Table performs item operations against a single DynamoDB table.
type Table struct {
	api    API
	name   string
	logger zerolog.Logger
}

// NewTable creates a Table bound to the named table.
func NewTable(api API, name string, logger zerolog.Logger) *Table {
	return &Table{
		api:    api,
		name:   name,
		logger: logger.With().Str("table", name).Logger(),
	}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Get retrieves the item with the given key. It returns nil, nil when the
// item does not exist.
func (t *Table) Get(ctx context.Context, key Item) (Item, error) {
	out, err := t.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to get item")
		return nil, fmt.Errorf("failed to get item from %s: %w", t.name, err)
	}

	if len(out.Item) == 0 {
		return nil, nil
	}

	return out.Item, nil
}

// Put writes the item, replacing any existing item with the same key.
func (t *Table) Put(ctx context.Context, item Item) error {
	_, err := t.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	})
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to put item")
		return fmt.Errorf("failed to put item into %s: %w", t.name, err)
	}
	return nil
}

// Update applies an update expression to the item with the given key.
// names may be nil when the expression uses no attribute name placeholders.
func (t *Table) Update(
	ctx context.Context,
	key Item,
	expression string,
	names map[string]string,
	values Item,
) error {
	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key,
		UpdateExpression:          aws.String(expression),
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	if _, err := t.api.UpdateItem(ctx, input); err != nil {
		t.logger.Error().Err(err).Str("expression", expression).Msg("failed to update item")
		return fmt.Errorf("failed to update item in %s: %w", t.name, err)
	}
	return nil
}

// Delete removes the item with the given key. Deleting a missing item is
// not an error.
func (t *Table) Delete(ctx context.Context, key Item) error {
	_, err := t.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to delete item")
		return fmt.Errorf("failed to delete item from %s: %w", t.name, err)
	}
	return nil
}

// ScanAll scans the whole table, following pagination. The table name of
// input is always overwritten; input may be nil.
func (t *Table) ScanAll(ctx context.Context, input *dynamodb.ScanInput) ([]Item, error) {
	if input == nil {
		input = &dynamodb.ScanInput{}
	}
	input.TableName = aws.String(t.name)

	var items []Item
	paginator := dynamodb.NewScanPaginator(t.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			t.logger.Error().Err(err).Msg("failed to scan table")
			return nil, fmt.Errorf("failed to scan %s: %w", t.name, err)
		}
		items = append(items, page.Items...)
	}

	return items, nil
}

// QueryAll runs the query to completion, following pagination. The table
// name of input is always overwritten.
func (t *Table) QueryAll(ctx context.Context, input *dynamodb.QueryInput) ([]Item, error) {
	input.TableName = aws.String(t.name)

	var items []Item
	paginator := dynamodb.NewQueryPaginator(t.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			t.logger.Error().
				Err(err).
				Str("index", aws.ToString(input.IndexName)).
				Msg("failed to query table")
			return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
		}
		items = append(items, page.Items...)
	}

	return items, nil
}

// EnsureTable creates the table described by input unless it already
// exists, then waits for it to become active. A table created concurrently
// by another process counts as success.
func EnsureTable(ctx context.Context, api API, input *dynamodb.CreateTableInput, logger zerolog.Logger) error {
	name := aws.ToString(input.TableName)
	logger = logger.With().Str("table", name).Logger()

	exists, err := tableExists(ctx, api, name)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list tables, falling back to DescribeTable")

		_, descErr := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if descErr == nil {
			exists = true
		} else {
			var notFound *types.ResourceNotFoundException
			if !errors.As(descErr, &notFound) {
				return fmt.Errorf("failed to check table %s: %w", name, descErr)
			}
		}
	}

	if exists {
		logger.Info().Msg("table already exists")
		return nil
	}

	if input.BillingMode == "" {
		input.BillingMode = types.BillingModePayPerRequest
	}

	logger.Info().Msg("creating table")

	if _, err := api.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			logger.Info().Msg("table was created concurrently")
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(api)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, 2*time.Minute); err != nil {
		return fmt.Errorf("failed waiting for table %s: %w", name, err)
	}

	logger.Info().Msg("table created successfully")
	return nil
}

func tableExists(ctx context.Context, api API, name string) (bool, error) {
	paginator := dynamodb.NewListTablesPaginator(api, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return false, err
		}
		for _, tableName := range page.TableNames {
			if tableName == name {
				return true, nil
			}
		}
	}
	return false, nil
}
