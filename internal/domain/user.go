package domain

import "time"

// CartItem is keyed by (UserID, ProductID). Display fields are denormalized
// at add-time so the cart stays renderable while offline.
type CartItem struct {
	UserID    string    `db:"user_id" json:"userId"`
	ProductID string    `db:"product_id" json:"productId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	BrandName string    `db:"brand_name" json:"brandName"`
	Title     string    `db:"title" json:"title"`
	Price     float64   `db:"price" json:"price"`
	ImageURL  string    `db:"image_url" json:"imageUrl"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type FavoriteItem struct {
	UserID    string    `db:"user_id" json:"userId"`
	ProductID string    `db:"product_id" json:"productId"`
	BrandName string    `db:"brand_name" json:"brandName"`
	Title     string    `db:"title" json:"title"`
	Price     float64   `db:"price" json:"price"`
	ImageURL  string    `db:"image_url" json:"imageUrl"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// UserProfile is a singleton per user.
type UserProfile struct {
	UserID    string    `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Order struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Total     float64   `db:"total" json:"total"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
