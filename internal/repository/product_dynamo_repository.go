package repository

import (
	"context"
	"fmt"
	"sort"

	"shopfront/internal/database"
	"shopfront/internal/dynamo"
	"shopfront/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
)

type dynamoProductRepository struct {
	table  *dynamo.Table
	logger zerolog.Logger
}

// NewDynamoProductRepository creates a product repository on a DynamoDB
// table keyed by id with a category global secondary index.
//
// The category filter is an exact match served by the index. Results are
// ordered by id and paged in memory.
func NewDynamoProductRepository(table *dynamo.Table, logger zerolog.Logger) ProductRepository {
	return &dynamoProductRepository{
		table:  table,
		logger: logger.With().Str("repository", "product").Str("backend", "dynamodb").Logger(),
	}
}

func (r *dynamoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	item, err := r.table.Get(ctx, dynamo.Item{"id": dynamo.String(id)})
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	if item == nil {
		r.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}

	p, err := productFromItem(item)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to decode product")
		return nil, err
	}
	return p, nil
}

func (r *dynamoProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	var (
		items []dynamo.Item
		err   error
	)
	if filter.Category != "" {
		items, err = r.table.QueryAll(ctx, &dynamodb.QueryInput{
			IndexName:                 aws.String(database.CategoryIndex),
			KeyConditionExpression:    aws.String("#category = :category"),
			ExpressionAttributeNames:  map[string]string{"#category": "category"},
			ExpressionAttributeValues: dynamo.Item{":category": dynamo.String(filter.Category)},
		})
	} else {
		items, err = r.table.ScanAll(ctx, nil)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}

	products := make([]model.Product, 0, len(items))
	for _, item := range items {
		p, err := productFromItem(item)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to decode product")
			return nil, 0, err
		}
		products = append(products, *p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})

	total := len(products)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	return products[start:end], total, nil
}

func (r *dynamoProductRepository) Categories(ctx context.Context) ([]string, error) {
	items, err := r.table.ScanAll(ctx, &dynamodb.ScanInput{
		ProjectionExpression:     aws.String("#category"),
		ExpressionAttributeNames: map[string]string{"#category": "category"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, item := range items {
		c, err := dynamo.GetString(item, "category")
		if err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return categories, nil
}

func (r *dynamoProductRepository) Count(ctx context.Context) (int, error) {
	items, err := r.table.ScanAll(ctx, &dynamodb.ScanInput{
		ProjectionExpression: aws.String("id"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return len(items), nil
}

func (r *dynamoProductRepository) Upsert(ctx context.Context, products []model.Product) error {
	for _, p := range products {
		if err := r.table.Put(ctx, productToItem(p)); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}

	r.logger.Debug().Int("count", len(products)).Msg("products upserted successfully")
	return nil
}

func productToItem(p model.Product) dynamo.Item {
	return dynamo.Item{
		"id":          dynamo.String(p.ID),
		"name":        dynamo.String(p.Name),
		"description": dynamo.String(p.Description),
		"price":       dynamo.Float(p.Price),
		"category":    dynamo.String(p.Category),
		"image_url":   dynamo.String(p.ImageURL),
		"stock":       dynamo.Int(p.Stock),
	}
}

func productFromItem(item dynamo.Item) (*model.Product, error) {
	var (
		p   model.Product
		err error
	)
	if p.ID, err = dynamo.GetString(item, "id"); err != nil {
		return nil, err
	}
	if p.Name, err = dynamo.GetString(item, "name"); err != nil {
		return nil, err
	}
	if p.Description, err = dynamo.GetString(item, "description"); err != nil {
		return nil, err
	}
	if p.Price, err = dynamo.GetFloat(item, "price"); err != nil {
		return nil, err
	}
	if p.Category, err = dynamo.GetString(item, "category"); err != nil {
		return nil, err
	}
	if p.ImageURL, err = dynamo.GetString(item, "image_url"); err != nil {
		return nil, err
	}
	if p.Stock, err = dynamo.GetInt(item, "stock"); err != nil {
		return nil, err
	}
	return &p, nil
}
