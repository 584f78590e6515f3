package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teslo-shop/backend/internal/events"
	"github.com/teslo-shop/backend/internal/models"
	"github.com/teslo-shop/backend/internal/repo"
	"github.com/teslo-shop/backend/internal/search"
	"github.com/teslo-shop/backend/internal/transport"
)

var validGenders = map[string]bool{
	models.GenderMen:    true,
	models.GenderWomen:  true,
	models.GenderKid:    true,
	models.GenderUnisex: true,
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
	Search *search.Indexer
	Log    *slog.Logger
}

func NewCatalogService(r *repo.GormRepo, ev *events.Producer, idx *search.Indexer, l *slog.Logger) *CatalogService {
	return &CatalogService{Repo: r, Events: ev, Search: idx, Log: l}
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest, owner *models.User) (*transport.ProductPlain, error) {
	l := s.Log.With("svc", "catalog.create")

	if req.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if len(req.Sizes) == 0 {
		return nil, fmt.Errorf("%w: sizes must not be empty", ErrValidation)
	}
	if !validGenders[req.Gender] {
		return nil, fmt.Errorf("%w: invalid gender %q", ErrValidation, req.Gender)
	}

	prod := models.Product{
		Title:  req.Title,
		Slug:   models.SlugFromTitle(req.Title),
		Sizes:  req.Sizes,
		Gender: req.Gender,
		Tags:   req.Tags,
		UserID: owner.ID,
	}
	if req.Slug != nil && *req.Slug != "" {
		prod.Slug = *req.Slug
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		prod.Price = *req.Price
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
		}
		prod.Stock = *req.Stock
	}
	for _, url := range req.Images {
		prod.Images = append(prod.Images, models.ProductImage{URL: url})
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, classifyStoreError(l, err, fmt.Sprintf("title %q or slug %q", prod.Title, prod.Slug))
	}

	plain := transport.ToProductPlain(&prod)
	s.publish(ctx, "product_created", plain)
	s.index(ctx, plain)

	l.Info("product created", "id", prod.ID, "slug", prod.Slug)
	return &plain, nil
}

func (s *CatalogService) FindAll(ctx context.Context, p transport.Pagination) ([]transport.ProductPlain, error) {
	l := s.Log.With("svc", "catalog.find_all")

	p = p.Normalize()
	items, err := s.Repo.ListProducts(ctx, p.Limit, p.Offset)
	if err != nil {
		l.Error("store error", "error", err)
		return nil, ErrInternal
	}

	plains := make([]transport.ProductPlain, len(items))
	for i := range items {
		plains[i] = transport.ToProductPlain(&items[i])
	}
	return plains, nil
}

// FindOne resolves a term to a product: a UUID looks up by id, anything else
// matches the title case-insensitively or the lowercased slug exactly.
func (s *CatalogService) FindOne(ctx context.Context, term string) (*models.Product, error) {
	var (
		prod *models.Product
		err  error
	)
	if id, parseErr := uuid.Parse(term); parseErr == nil {
		prod, err = s.Repo.GetProductByID(ctx, id)
	} else {
		prod, err = s.Repo.GetProductByTerm(ctx, term)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product with term %q", ErrNotFound, term)
		}
		s.Log.Error("store error", "svc", "catalog.find_one", "error", err)
		return nil, ErrInternal
	}
	return prod, nil
}

func (s *CatalogService) FindOnePlain(ctx context.Context, term string) (*transport.ProductPlain, error) {
	prod, err := s.FindOne(ctx, term)
	if err != nil {
		return nil, err
	}
	plain := transport.ToProductPlain(prod)
	return &plain, nil
}

// Update overlays the caller-supplied fields on the stored row and saves the
// result. The slug is recomputed from the resulting title on every update, so
// a title change silently renames the public slug. The images field of the
// payload is not applied.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest, principal *models.User) (*transport.ProductPlain, error) {
	l := s.Log.With("svc", "catalog.update")

	if !principal.HasRole(models.RoleAdmin) {
		return nil, ErrForbidden
	}

	prod, err := s.Repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product with id %q", ErrNotFound, id)
		}
		l.Error("store error", "error", err)
		return nil, ErrInternal
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		prod.Title = *req.Title
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		prod.Price = *req.Price
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
		}
		prod.Stock = *req.Stock
	}
	if len(req.Sizes) > 0 {
		prod.Sizes = req.Sizes
	}
	if req.Gender != nil {
		if !validGenders[*req.Gender] {
			return nil, fmt.Errorf("%w: invalid gender %q", ErrValidation, *req.Gender)
		}
		prod.Gender = *req.Gender
	}
	if len(req.Tags) > 0 {
		prod.Tags = req.Tags
	}

	prod.Slug = models.SlugFromTitle(prod.Title)

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, classifyStoreError(l, err, fmt.Sprintf("title %q or slug %q", prod.Title, prod.Slug))
	}

	plain := transport.ToProductPlain(prod)
	s.publish(ctx, "product_updated", plain)
	s.index(ctx, plain)

	l.Info("product updated", "id", prod.ID, "slug", prod.Slug)
	return &plain, nil
}

// Remove deletes by id and reports the outcome as a message string: a missing
// row yields a "not found" message rather than an error. FindOne raises
// instead; the asymmetry is the documented current behavior.
func (s *CatalogService) Remove(ctx context.Context, id uuid.UUID, principal *models.User) (string, error) {
	l := s.Log.With("svc", "catalog.remove")

	if !principal.HasRole(models.RoleAdmin) {
		return "", ErrForbidden
	}

	affected, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		l.Error("store error", "error", err)
		return "", ErrInternal
	}
	if affected == 0 {
		return fmt.Sprintf("product with id %q not found", id), nil
	}

	s.publish(ctx, "product_deleted", map[string]any{"id": id})
	s.deindex(ctx, id)

	l.Info("product deleted", "id", id)
	return fmt.Sprintf("product with id %q has been deleted", id), nil
}

// SearchIndexed serves fuzzy text search from the elasticsearch index. The
// relational lookup paths never depend on it.
func (s *CatalogService) SearchIndexed(ctx context.Context, query string, p transport.Pagination) (int64, []transport.ProductPlain, error) {
	if s.Search == nil {
		return 0, nil, fmt.Errorf("%w: search index is not configured", ErrValidation)
	}
	p = p.Normalize()
	total, hits, err := s.Search.SearchProducts(ctx, query, p.Offset, p.Limit)
	if err != nil {
		s.Log.Error("search query failed", "query", query, "error", err)
		return 0, nil, ErrInternal
	}
	return total, hits, nil
}

// publish emits a domain event, best effort. Failures are logged and never
// fail the operation.
func (s *CatalogService) publish(ctx context.Context, eventType string, payload any) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{"type": eventType, "payload": payload}
	if err := s.Events.PublishEvent(ctx, eventType, event); err != nil {
		s.Log.Error("event publish failed", "type", eventType, "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, plain transport.ProductPlain) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, plain); err != nil {
		s.Log.Error("search index failed", "id", plain.ID, "error", err)
	}
}

func (s *CatalogService) deindex(ctx context.Context, id uuid.UUID) {
	if s.Search == nil {
		return
	}
	if err := s.Search.DeleteProduct(ctx, id.String()); err != nil {
		s.Log.Error("search deindex failed", "id", id, "error", err)
	}
}
