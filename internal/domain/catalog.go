package domain

import (
	"slices"
	"time"
)

// Product is the local-cache representation of a catalog product. Catalog
// entities are replicas of the remote source: they are written only by the
// bulk upsert path, never edited locally.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalizedName"`
	Description    string    `json:"description"`
	CategoryID     string    `json:"categoryId"`
	BrandID        string    `json:"brandId"`
	Price          float64   `json:"price"`
	ImageURL       string    `json:"imageUrl"`
	Active         bool      `json:"active"`
	Keywords       []string  `json:"keywords"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p Product) Equal(o Product) bool {
	return p.ID == o.ID &&
		p.Name == o.Name &&
		p.NormalizedName == o.NormalizedName &&
		p.Description == o.Description &&
		p.CategoryID == o.CategoryID &&
		p.BrandID == o.BrandID &&
		p.Price == o.Price &&
		p.ImageURL == o.ImageURL &&
		p.Active == o.Active &&
		slices.Equal(p.Keywords, o.Keywords) &&
		p.CreatedAt.Equal(o.CreatedAt) &&
		p.UpdatedAt.Equal(o.UpdatedAt)
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	BrandIDs  []string  `json:"brandIds"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Category) Equal(o Category) bool {
	return c.ID == o.ID &&
		c.Name == o.Name &&
		c.ImageURL == o.ImageURL &&
		slices.Equal(c.BrandIDs, o.BrandIDs) &&
		c.Active == o.Active &&
		c.CreatedAt.Equal(o.CreatedAt) &&
		c.UpdatedAt.Equal(o.UpdatedAt)
}

type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b Brand) Equal(o Brand) bool {
	return b.ID == o.ID &&
		b.Name == o.Name &&
		b.ImageURL == o.ImageURL &&
		b.Active == o.Active &&
		b.CreatedAt.Equal(o.CreatedAt) &&
		b.UpdatedAt.Equal(o.UpdatedAt)
}

func ProductsEqual(a, b []Product) bool {
	return slices.EqualFunc(a, b, Product.Equal)
}

func CategoriesEqual(a, b []Category) bool {
	return slices.EqualFunc(a, b, Category.Equal)
}

func BrandsEqual(a, b []Brand) bool {
	return slices.EqualFunc(a, b, Brand.Equal)
}
