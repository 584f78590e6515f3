package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teslo-shop/backend/internal/models"
)

// CreateProduct inserts the product and its images as an explicit two-step
// write inside one transaction, so a failed image insert rolls back the
// product row.
func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		images := prod.Images
		prod.Images = nil
		if err := tx.Create(prod).Error; err != nil {
			prod.Images = images
			return err
		}
		for i := range images {
			images[i].ProductID = prod.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				prod.Images = images
				return err
			}
		}
		prod.Images = images
		return nil
	})
}

// ListProducts returns a page of products in creation order, images eagerly
// loaded.
func (r *GormRepo) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).
		Preload("Images").
		Order("created_at, id").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

// GetProductByTerm matches the term case-insensitively against the title, or
// exactly against the lowercased slug.
func (r *GormRepo) GetProductByTerm(ctx context.Context, term string) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).
		Preload("Images").
		Where("UPPER(title) = UPPER(?) OR slug = ?", term, strings.ToLower(term)).
		First(&prod).Error
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Images").Save(prod).Error
}

// DeleteProduct removes the product and its images, returning the number of
// product rows affected. Images go first so the delete is safe even where the
// store does not enforce the FK cascade.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}
