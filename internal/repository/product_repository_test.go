package repository

import (
	"context"
	"testing"
	"time"

	"shopfront/internal/database"
	"shopfront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.EnsureSchema(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

var testProducts = []model.Product{
	{ID: "P001", Name: "Wireless Mouse", Description: "Mouse", Price: 25.50, Category: "Electronics", ImageURL: "https://img/1", Stock: 10},
	{ID: "P002", Name: "Trail Shoes", Description: "Shoes", Price: 80.00, Category: "Sports", ImageURL: "https://img/2", Stock: 5},
	{ID: "P003", Name: "Headphones", Description: "Audio", Price: 199.99, Category: "Electronics", ImageURL: "https://img/3", Stock: 0},
	{ID: "P004", Name: "Kettle", Description: "Kitchen", Price: 35.00, Category: "Home", ImageURL: "https://img/4", Stock: 7},
	{ID: "P005", Name: "Go Book", Description: "Book", Price: 39.99, Category: "Books", ImageURL: "https://img/5", Stock: 100},
}

func TestProductRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	require.NoError(t, repo.Upsert(context.Background(), testProducts))

	tests := []struct {
		name          string
		filter        model.ProductFilter
		expectedIDs   []string
		expectedTotal int
	}{
		{
			name:          "All products",
			filter:        model.ProductFilter{Limit: 100},
			expectedIDs:   []string{"P001", "P002", "P003", "P004", "P005"},
			expectedTotal: 5,
		},
		{
			name:          "First page",
			filter:        model.ProductFilter{Limit: 2},
			expectedIDs:   []string{"P001", "P002"},
			expectedTotal: 5,
		},
		{
			name:          "Last page",
			filter:        model.ProductFilter{Limit: 2, Offset: 4},
			expectedIDs:   []string{"P005"},
			expectedTotal: 5,
		},
		{
			name:          "Offset beyond results",
			filter:        model.ProductFilter{Limit: 10, Offset: 10},
			expectedIDs:   []string{},
			expectedTotal: 5,
		},
		{
			name:          "Category is case-insensitive",
			filter:        model.ProductFilter{Category: "electronics", Limit: 100},
			expectedIDs:   []string{"P001", "P003"},
			expectedTotal: 2,
		},
		{
			name:          "Category substring",
			filter:        model.ProductFilter{Category: "port", Limit: 100},
			expectedIDs:   []string{"P002"},
			expectedTotal: 1,
		},
		{
			name:          "Unknown category",
			filter:        model.ProductFilter{Category: "Garden", Limit: 100},
			expectedIDs:   []string{},
			expectedTotal: 0,
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

func TestProductRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	require.NoError(t, repo.Upsert(context.Background(), testProducts))

	t.Run("Product exists", func(t *testing.T) {
		product, err := repo.GetByID(context.Background(), "P003")

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, testProducts[2], *product)
	})

	t.Run("Product does not exist", func(t *testing.T) {
		product, err := repo.GetByID(context.Background(), "P999")

		require.NoError(t, err)
		assert.Nil(t, product)
	})
}

func TestProductRepository_CategoriesAndCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(pool, zerolog.Nop())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	require.NoError(t, repo.Upsert(ctx, testProducts))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	categories, err = repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Electronics", "Home", "Sports"}, categories)
}

func TestProductRepository_UpsertReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(pool, zerolog.Nop())
	require.NoError(t, repo.Upsert(ctx, testProducts[:1]))

	updated := testProducts[0]
	updated.Price = 19.99
	updated.Stock = 3
	require.NoError(t, repo.Upsert(ctx, []model.Product{updated}))

	product, err := repo.GetByID(ctx, updated.ID)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 19.99, product.Price)
	assert.Equal(t, 3, product.Stock)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	// Close the pool to simulate database errors
	pool.Close()

	ctx := context.Background()

	t.Run("List with closed pool", func(t *testing.T) {
		products, total, err := repo.List(ctx, model.ProductFilter{Limit: 10})

		require.Error(t, err)
		assert.Nil(t, products)
		assert.Zero(t, total)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		product, err := repo.GetByID(ctx, "P001")

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("Categories with closed pool", func(t *testing.T) {
		_, err := repo.Categories(ctx)
		require.Error(t, err)
	})

	t.Run("Upsert with closed pool", func(t *testing.T) {
		err := repo.Upsert(ctx, testProducts)
		require.Error(t, err)
	})
}
