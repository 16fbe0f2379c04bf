package catalog

import "shopfront/internal/model"

// SampleProducts returns the built-in demo catalogue.
func SampleProducts() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Name:        "Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       199.99,
			Category:    "Electronics",
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
			Stock:       50,
		},
		{
			ID:          "2",
			Name:        "Running Shoes",
			Description: "Comfortable running shoes for daily exercise",
			Price:       89.99,
			Category:    "Sports",
			ImageURL:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500",
			Stock:       30,
		},
		{
			ID:          "3",
			Name:        "Coffee Maker",
			Description: "Automatic coffee maker for perfect morning coffee",
			Price:       149.99,
			Category:    "Home",
			ImageURL:    "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=500",
			Stock:       25,
		},
		{
			ID:          "4",
			Name:        "Smartphone",
			Description: "Latest smartphone with advanced camera system",
			Price:       699.99,
			Category:    "Electronics",
			ImageURL:    "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=500",
			Stock:       40,
		},
		{
			ID:          "5",
			Name:        "Book - Python Programming",
			Description: "Complete guide to Python programming for beginners",
			Price:       39.99,
			Category:    "Books",
			ImageURL:    "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=500",
			Stock:       100,
		},
	}
}
