package mapping

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matvei-khlestov/vemora-sync/internal/domain"
	"github.com/matvei-khlestov/vemora-sync/internal/remote"
	"go.uber.org/zap"
)

// Mapper converts wire records into local-cache entities. Records that fail
// validation are dropped from the batch, never poisoning the rest of it.
type Mapper struct {
	validate *validator.Validate
	logger   *zap.Logger
}

func NewMapper(logger *zap.Logger) *Mapper {
	return &Mapper{
		validate: validator.New(),
		logger:   logger,
	}
}

func (m *Mapper) Products(records []remote.ProductRecord) []domain.Product {
	products := make([]domain.Product, 0, len(records))
	for _, record := range records {
		if err := m.validate.Struct(record); err != nil {
			m.logger.Warn("dropping invalid product record",
				zap.String("id", record.ID),
				zap.Error(err),
			)
			continue
		}

		products = append(products, ProductFromRecord(record))
	}

	return products
}

func (m *Mapper) Categories(records []remote.CategoryRecord) []domain.Category {
	categories := make([]domain.Category, 0, len(records))
	for _, record := range records {
		if err := m.validate.Struct(record); err != nil {
			m.logger.Warn("dropping invalid category record",
				zap.String("id", record.ID),
				zap.Error(err),
			)
			continue
		}

		categories = append(categories, CategoryFromRecord(record))
	}

	return categories
}

func (m *Mapper) Brands(records []remote.BrandRecord) []domain.Brand {
	brands := make([]domain.Brand, 0, len(records))
	for _, record := range records {
		if err := m.validate.Struct(record); err != nil {
			m.logger.Warn("dropping invalid brand record",
				zap.String("id", record.ID),
				zap.Error(err),
			)
			continue
		}

		brands = append(brands, BrandFromRecord(record))
	}

	return brands
}

func ProductFromRecord(record remote.ProductRecord) domain.Product {
	return domain.Product{
		ID:             record.ID,
		Name:           record.Name,
		NormalizedName: NormalizeName(record.Name),
		Description:    record.Description,
		CategoryID:     record.CategoryID,
		BrandID:        record.BrandID,
		Price:          record.Price,
		ImageURL:       record.ImageURL,
		Active:         record.IsActive,
		Keywords:       record.Keywords,
		CreatedAt:      record.CreatedDate,
		UpdatedAt:      record.UpdatedDate,
	}
}

func CategoryFromRecord(record remote.CategoryRecord) domain.Category {
	return domain.Category{
		ID:        record.ID,
		Name:      record.Name,
		ImageURL:  record.ImageURL,
		BrandIDs:  record.BrandIDs,
		Active:    record.IsActive,
		CreatedAt: record.CreatedDate,
		UpdatedAt: record.UpdatedDate,
	}
}

func BrandFromRecord(record remote.BrandRecord) domain.Brand {
	return domain.Brand{
		ID:        record.ID,
		Name:      record.Name,
		ImageURL:  record.ImageURL,
		Active:    record.IsActive,
		CreatedAt: record.CreatedDate,
		UpdatedAt: record.UpdatedDate,
	}
}

// NormalizeName is the search key for free-text product queries.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
