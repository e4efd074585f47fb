package mapping

import (
	"testing"
	"time"

	"github.com/matvei-khlestov/vemora-sync/internal/remote"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductFromRecord(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	record := remote.ProductRecord{
		ID:          "p1",
		Name:        "  Vemora Hoodie  ",
		Description: "warm",
		CategoryID:  "c1",
		BrandID:     "b1",
		Price:       49.99,
		ImageURL:    "https://cdn.example.com/hoodie.png",
		IsActive:    true,
		Keywords:    []string{"hoodie", "winter"},
		CreatedDate: created,
		UpdatedDate: updated,
	}

	product := ProductFromRecord(record)

	require.Equal(t, "p1", product.ID)
	require.Equal(t, "  Vemora Hoodie  ", product.Name)
	require.Equal(t, "vemora hoodie", product.NormalizedName)
	require.Equal(t, "c1", product.CategoryID)
	require.Equal(t, "b1", product.BrandID)
	require.Equal(t, 49.99, product.Price)
	require.True(t, product.Active)
	require.Equal(t, []string{"hoodie", "winter"}, product.Keywords)
	require.Equal(t, created, product.CreatedAt)
	require.Equal(t, updated, product.UpdatedAt)
}

func TestMapper_DropsInvalidRecords(t *testing.T) {
	mapper := NewMapper(zap.NewNop())

	records := []remote.ProductRecord{
		{ID: "p1", Name: "Valid", Price: 10},
		{ID: "", Name: "Missing id", Price: 10},
		{ID: "p3", Name: "Negative price", Price: -5},
		{ID: "p4", Name: "Also valid", Price: 0},
	}

	products := mapper.Products(records)

	require.Len(t, products, 2)
	require.Equal(t, "p1", products[0].ID)
	require.Equal(t, "p4", products[1].ID)
}

func TestMapper_Categories(t *testing.T) {
	mapper := NewMapper(zap.NewNop())

	categories := mapper.Categories([]remote.CategoryRecord{
		{ID: "c1", Name: "Shoes", BrandIDs: []string{"b1", "b2"}, IsActive: true},
		{ID: "c2", Name: ""},
	})

	require.Len(t, categories, 1)
	require.Equal(t, "c1", categories[0].ID)
	require.Equal(t, []string{"b1", "b2"}, categories[0].BrandIDs)
}

func TestMapper_Brands(t *testing.T) {
	mapper := NewMapper(zap.NewNop())

	brands := mapper.Brands([]remote.BrandRecord{
		{ID: "b1", Name: "Acme", IsActive: true},
		{Name: "no id"},
	})

	require.Len(t, brands, 1)
	require.Equal(t, "b1", brands[0].ID)
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "retro sneaker", NormalizeName("  Retro Sneaker "))
	require.Equal(t, "", NormalizeName("   "))
}
