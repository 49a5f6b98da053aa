package service

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecom/internal/cache"
	"ecom/internal/logging"
	"ecom/internal/models"
	"ecom/internal/mykafka"
	"ecom/internal/repo"
	"ecom/internal/search"
	"ecom/internal/transport"
)

type CatalogService struct {
	Products repo.ProductRepository
	Cache    *cache.ProductCache
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	if req.Name == "" || req.Price < 0 || req.Stock < 0 {
		return nil, ErrValidation
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := s.Products.Create(ctx, &product); err != nil {
		l.Error("create_product_error", "reason", "cannot insert product", "error", err)
		return nil, err
	}

	s.publish(ctx, product.ID.Hex(), map[string]any{
		"type":      "product_created",
		"productID": product.ID.Hex(),
		"name":      product.Name,
	})
	s.index(ctx, &product)

	l.Info("create_product_success", "product_id", product.ID.Hex())
	return &product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if product, ok := s.Cache.Get(ctx, id.Hex()); ok {
		return product, nil
	}

	product, err := s.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, product)
	return product, nil
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.Products.FindAll(ctx)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product")

	if err := s.Products.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.Cache.Delete(ctx, id.Hex())
	s.publish(ctx, id.Hex(), map[string]any{
		"type":      "product_deleted",
		"productID": id.Hex(),
	})
	s.removeFromIndex(ctx, id.Hex())

	l.Info("delete_product_success", "product_id", id.Hex())
	return nil
}

// Event publishing and search indexing are best effort: a broker or index
// outage must not fail the store write that already happened.

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	event["eventID"] = uuid.NewString()
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "product_events", key, event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "topic", "product_events", "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, product *models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, search.Index, product); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "product_id", product.ID.Hex(), "error", err)
	}
}

func (s *CatalogService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil {
		return
	}
	if err := search.RemoveProduct(ctx, s.ES, search.Index, id); err != nil {
		logging.FromContext(ctx).Warn("es_remove_failed", "product_id", id, "error", err)
	}
}
