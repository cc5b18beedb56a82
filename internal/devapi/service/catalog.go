package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_inventory/internal/devapi/repo"
	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/internal/mykafka"
)

type CatalogService struct {
	Repo      *repo.GormRepo
	Publisher mykafka.Publisher
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, userID string, in models.ProductInput) (*models.Product, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	prod := &models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Stock:       in.Stock,
		CreatedBy:   userID,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.publish(ctx, "product_created", userID, prod.ID, prod.Name)
	return prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, userID, id string, in models.ProductInput) (*models.Product, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	prod, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateProduct(ctx, prod, in); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.publish(ctx, "product_updated", userID, prod.ID, prod.Name)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, userID, id string) error {
	prod, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.publish(ctx, "product_deleted", userID, prod.ID, prod.Name)
	return nil
}

func (s *CatalogService) owned(ctx context.Context, userID, id string) (*models.Product, error) {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if prod.CreatedBy != userID {
		return nil, ErrForbidden
	}
	return prod, nil
}

func (s *CatalogService) publish(ctx context.Context, kind, userID, productID, name string) {
	if s.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":      kind,
		"productID": productID,
		"userID":    userID,
		"name":      name,
	}
	if err := s.Publisher.PublishEvent(ctx, mykafka.ProductTopic, productID, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "type", kind, "error", err)
	}
}
