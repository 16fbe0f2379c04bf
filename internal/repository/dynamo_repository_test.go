package repository

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/dynamo"
	"shopfront/internal/dynamo/dynamotest"
	"shopfront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDynamo(t *testing.T) (*dynamotest.MemoryAPI, ProductRepository, CartRepository) {
	t.Helper()

	api := dynamotest.New()
	cfg := config.DynamoDBConfig{ProductsTable: "products", CartsTable: "carts"}
	require.NoError(t, database.EnsureDynamoTables(context.Background(), api, cfg, zerolog.Nop()))

	products := NewDynamoProductRepository(dynamo.NewTable(api, cfg.ProductsTable, zerolog.Nop()), zerolog.Nop())
	carts := NewDynamoCartRepository(dynamo.NewTable(api, cfg.CartsTable, zerolog.Nop()), zerolog.Nop())

	return api, products, carts
}

func TestDynamoProductRepository_List(t *testing.T) {
	_, repo, _ := setupDynamo(t)
	require.NoError(t, repo.Upsert(context.Background(), testProducts))

	tests := []struct {
		name          string
		filter        model.ProductFilter
		expectedIDs   []string
		expectedTotal int
	}{
		{
			name:          "All products ordered by id",
			filter:        model.ProductFilter{Limit: 100},
			expectedIDs:   []string{"P001", "P002", "P003", "P004", "P005"},
			expectedTotal: 5,
		},
		{
			name:          "Second page",
			filter:        model.ProductFilter{Limit: 2, Offset: 2},
			expectedIDs:   []string{"P003", "P004"},
			expectedTotal: 5,
		},
		{
			name:          "Offset beyond results",
			filter:        model.ProductFilter{Limit: 10, Offset: 10},
			expectedIDs:   []string{},
			expectedTotal: 5,
		},
		{
			name:          "Category uses the index",
			filter:        model.ProductFilter{Category: "Electronics", Limit: 100},
			expectedIDs:   []string{"P001", "P003"},
			expectedTotal: 2,
		},
		{
			name:          "Category page",
			filter:        model.ProductFilter{Category: "Electronics", Limit: 1, Offset: 1},
			expectedIDs:   []string{"P003"},
			expectedTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, total)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestDynamoProductRepository_GetByID(t *testing.T) {
	_, repo, _ := setupDynamo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testProducts))

	product, err := repo.GetByID(ctx, "P003")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, testProducts[2], *product)

	product, err = repo.GetByID(ctx, "P999")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestDynamoProductRepository_CategoriesAndCount(t *testing.T) {
	_, repo, _ := setupDynamo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Upsert(ctx, testProducts))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Electronics", "Home", "Sports"}, categories)
}

func TestDynamoProductRepository_StoresExactPrices(t *testing.T) {
	api, repo, _ := setupDynamo(t)
	require.NoError(t, repo.Upsert(context.Background(), testProducts[2:3]))

	items := api.Items("products")
	require.Len(t, items, 1)

	price, err := dynamo.GetDecimal(items[0], "price")
	require.NoError(t, err)
	assert.Equal(t, "199.99", price.String())
}

func TestDynamoProductRepository_Errors(t *testing.T) {
	api, repo, _ := setupDynamo(t)
	api.FailWith(errors.New("throttled"))
	ctx := context.Background()

	_, _, err := repo.List(ctx, model.ProductFilter{Limit: 10})
	assert.Error(t, err)

	_, err = repo.GetByID(ctx, "P001")
	assert.Error(t, err)

	_, err = repo.Categories(ctx)
	assert.Error(t, err)

	assert.Error(t, repo.Upsert(ctx, testProducts))
}

func TestDynamoCartRepository_Lifecycle(t *testing.T) {
	api, _, repo := setupDynamo(t)
	ctx := context.Background()

	cart, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Empty(t, cart.Items)
	require.Len(t, api.Items("carts"), 1)

	again, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	cart, err = repo.AddItem(ctx, "user-1", model.CartItem{ProductID: "P001", Quantity: 2, Price: 25.50})
	require.NoError(t, err)
	cart, err = repo.AddItem(ctx, "user-1", model.CartItem{ProductID: "P001", Quantity: 1, Price: 99})
	require.NoError(t, err)
	cart, err = repo.AddItem(ctx, "user-1", model.CartItem{ProductID: "P002", Quantity: 1, Price: 80})
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 25.50, cart.Items[0].Price)
	assert.Equal(t, 156.5, cart.Total)

	loaded, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, loaded.Items)
	assert.Equal(t, 156.5, loaded.Total)
	assert.True(t, !loaded.UpdatedAt.Before(loaded.CreatedAt))

	assert.ErrorIs(t, repo.RemoveItem(ctx, "user-1", "P999"), model.ErrCartItemNotFound)
	require.NoError(t, repo.RemoveItem(ctx, "user-1", "P001"))

	loaded, err = repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "P002", loaded.Items[0].ProductID)

	require.NoError(t, repo.Clear(ctx, "user-1"))

	loaded, err = repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
	assert.Equal(t, cart.ID, loaded.ID)
}

func TestDynamoCartRepository_MissingCart(t *testing.T) {
	_, _, repo := setupDynamo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.RemoveItem(ctx, "nobody", "P001"), model.ErrCartNotFound)
	assert.ErrorIs(t, repo.Clear(ctx, "nobody"), model.ErrCartNotFound)
}

func TestDynamoCartRepository_AddCreatesCart(t *testing.T) {
	api, _, repo := setupDynamo(t)

	cart, err := repo.AddItem(context.Background(), "user-9", model.CartItem{ProductID: "P004", Quantity: 2, Price: 35})
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Equal(t, 70.0, cart.Total)

	items := api.Items("carts")
	require.Len(t, items, 1)
	userID, err := dynamo.GetString(items[0], "user_id")
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}
