package repository

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/dynamo"
	"shopfront/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// dynamoCartRepository stores one item per user holding the whole cart.
// Every mutation rewrites the item.
type dynamoCartRepository struct {
	table  *dynamo.Table
	logger zerolog.Logger
	now    func() time.Time
}

// NewDynamoCartRepository creates a cart repository on a DynamoDB table
// keyed by user_id.
func NewDynamoCartRepository(table *dynamo.Table, logger zerolog.Logger) CartRepository {
	return &dynamoCartRepository{
		table:  table,
		logger: logger.With().Str("repository", "cart").Str("backend", "dynamodb").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *dynamoCartRepository) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = r.newCart(userID)
	if err := r.save(ctx, cart); err != nil {
		return nil, err
	}

	r.logger.Debug().Str("user_id", userID).Str("cart_id", cart.ID).Msg("cart created")
	return cart, nil
}

func (r *dynamoCartRepository) AddItem(ctx context.Context, userID string, item model.CartItem) (*model.Cart, error) {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = r.newCart(userID)
	}

	cart.MergeItem(item)
	cart.UpdatedAt = r.now()

	if err := r.save(ctx, cart); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("product_id", item.ProductID).
		Int("quantity", item.Quantity).
		Msg("cart item added")

	cart.Total = cart.CalculateTotal()
	return cart, nil
}

func (r *dynamoCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return model.ErrCartNotFound
	}
	if !cart.RemoveItem(productID) {
		return model.ErrCartItemNotFound
	}

	cart.UpdatedAt = r.now()
	return r.save(ctx, cart)
}

func (r *dynamoCartRepository) Clear(ctx context.Context, userID string) error {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return model.ErrCartNotFound
	}

	// "items" is a reserved word in DynamoDB expressions.
	err = r.table.Update(ctx,
		dynamo.Item{"user_id": dynamo.String(userID)},
		"SET #items = :items, updated_at = :updated_at",
		map[string]string{"#items": "items"},
		dynamo.Item{
			":items":      dynamo.List(),
			":updated_at": dynamo.String(r.now().Format(time.RFC3339Nano)),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *dynamoCartRepository) newCart(userID string) *model.Cart {
	now := r.now()
	return &model.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     []model.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// load returns nil, nil when the user has no cart.
func (r *dynamoCartRepository) load(ctx context.Context, userID string) (*model.Cart, error) {
	item, err := r.table.Get(ctx, dynamo.Item{"user_id": dynamo.String(userID)})
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	cart, err := cartFromItem(item)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to decode cart")
		return nil, err
	}
	cart.Total = cart.CalculateTotal()
	return cart, nil
}

func (r *dynamoCartRepository) save(ctx context.Context, cart *model.Cart) error {
	if err := r.table.Put(ctx, cartToItem(cart)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func cartToItem(cart *model.Cart) dynamo.Item {
	lines := make([]types.AttributeValue, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, dynamo.Map(dynamo.Item{
			"product_id": dynamo.String(it.ProductID),
			"quantity":   dynamo.Int(it.Quantity),
			"price":      dynamo.Float(it.Price),
		}))
	}

	return dynamo.Item{
		"user_id":    dynamo.String(cart.UserID),
		"id":         dynamo.String(cart.ID),
		"items":      dynamo.List(lines...),
		"created_at": dynamo.String(cart.CreatedAt.UTC().Format(time.RFC3339Nano)),
		"updated_at": dynamo.String(cart.UpdatedAt.UTC().Format(time.RFC3339Nano)),
	}
}

func cartFromItem(item dynamo.Item) (*model.Cart, error) {
	var (
		cart model.Cart
		err  error
	)
	if cart.UserID, err = dynamo.GetString(item, "user_id"); err != nil {
		return nil, err
	}
	if cart.ID, err = dynamo.GetString(item, "id"); err != nil {
		return nil, err
	}
	if cart.CreatedAt, err = getTime(item, "created_at"); err != nil {
		return nil, err
	}
	if cart.UpdatedAt, err = getTime(item, "updated_at"); err != nil {
		return nil, err
	}

	lines, err := dynamo.GetList(item, "items")
	if err != nil {
		return nil, err
	}

	cart.Items = make([]model.CartItem, 0, len(lines))
	for _, av := range lines {
		m, err := dynamo.AsMap(av)
		if err != nil {
			return nil, fmt.Errorf("cart line: %w", err)
		}

		var line model.CartItem
		if line.ProductID, err = dynamo.GetString(m, "product_id"); err != nil {
			return nil, err
		}
		if line.Quantity, err = dynamo.GetInt(m, "quantity"); err != nil {
			return nil, err
		}
		if line.Price, err = dynamo.GetFloat(m, "price"); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, line)
	}

	return &cart, nil
}

func getTime(item dynamo.Item, name string) (time.Time, error) {
	s, err := dynamo.GetString(item, name)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("attribute %s: %w", name, err)
	}
	return t, nil
}
