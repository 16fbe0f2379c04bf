package model

// Product represents an item in the catalogue.
type Product struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Category    string  `json:"category" db:"category"`
	ImageURL    string  `json:"image_url" db:"image_url"`
	Stock       int     `json:"stock" db:"stock"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	// Category is matched case-insensitively as a substring by the
	// relational backend and exactly by the key-value backend.
	Category string
	Limit    int
	Offset   int
}

// ProductList is the response payload for a product listing.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// CategoryList is the response payload for the categories endpoint.
type CategoryList struct {
	Categories []string `json:"categories"`
}
