package transport

import (
	"github.com/google/uuid"

	"github.com/teslo-shop/backend/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse pairs the profile with a freshly minted token. The password
// hash never appears here; the model excludes it from serialization.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type CreateProductRequest struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Slug        *string  `json:"slug"`
	Stock       *int     `json:"stock"`
	Sizes       []string `json:"sizes"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

// UpdateProductRequest carries the partial field set for merge-then-save
// updates. Slug is deliberately absent: it is recomputed from the title on
// every update. Images is accepted in the payload shape but not yet wired to
// image replacement.
type UpdateProductRequest struct {
	Title       *string  `json:"title"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
	Sizes       []string `json:"sizes"`
	Gender      *string  `json:"gender"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
}

type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize applies the documented defaults: limit 10, offset 0.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ProductPlain is the external product shape: image sub-entities flattened to
// an ordered list of URL strings.
type ProductPlain struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Stock       int       `json:"stock"`
	Sizes       []string  `json:"sizes"`
	Gender      string    `json:"gender"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	UserID      uuid.UUID `json:"user_id"`
}

func ToProductPlain(p *models.Product) ProductPlain {
	images := make([]string, len(p.Images))
	for i, img := range p.Images {
		images[i] = img.URL
	}
	return ProductPlain{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Gender:      p.Gender,
		Tags:        p.Tags,
		Images:      images,
		UserID:      p.UserID,
	}
}
