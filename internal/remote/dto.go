package remote

import "time"

// Wire records as the catalog service publishes them. Every push and fetch
// carries full current collections, not deltas.

type ProductRecord struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	BrandID     string    `json:"brandId"`
	Price       float64   `json:"price" validate:"gte=0"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
	IsActive    bool      `json:"isActive"`
	Keywords    []string  `json:"keywords"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

type CategoryRecord struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
	BrandIDs    []string  `json:"brandIds"`
	IsActive    bool      `json:"isActive"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

type BrandRecord struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
	IsActive    bool      `json:"isActive"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}
