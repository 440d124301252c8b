package service

import (
	"context"
	"strings"

	"vendio/internal/cache"
	"vendio/internal/models"
	"vendio/internal/repository"
	"vendio/internal/validation"
)

type ProductService struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

type CreateProductInput struct {
	UserID      uint
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Type        string  `json:"type"`
	ImageURL    string  `json:"image_url"`
}

type UpdateProductInput struct {
	UserID      uint
	ProductID   uint
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Active      *bool    `json:"active"`
}

func NewProductService(productRepo repository.ProductRepository, storeRepo repository.StoreRepository) *ProductService {
	return &ProductService{productRepo: productRepo, storeRepo: storeRepo}
}

func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, models.NewValidationError("Product name is required")
	}
	if in.Price <= 0 {
		return nil, models.NewValidationError("Price must be greater than zero")
	}

	productType := in.Type
	if productType == "" {
		productType = models.ProductTypeProduct
	}
	switch productType {
	case models.ProductTypeProduct, models.ProductTypeService:
		// valid
	default:
		return nil, models.NewValidationError("Invalid product type")
	}

	store, err := s.storeRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, models.NewNotFoundError("Store", in.UserID)
	}

	currency := in.Currency
	if currency == "" {
		currency = "USDC"
	}

	product := &models.Product{
		UserID:      in.UserID,
		StoreID:     store.ID,
		Name:        in.Name,
		Slug:        validation.Slugify(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Currency:    currency,
		Type:        productType,
		ImageURL:    in.ImageURL,
		Active:      true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	cache.InvalidateStore(ctx, store.Slug)
	return product, nil
}

func (s *ProductService) ListMyProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	return s.productRepo.ListByUser(ctx, userID)
}

// GetOwnedProduct fetches a product and verifies the caller owns it.
func (s *ProductService) GetOwnedProduct(ctx context.Context, userID, productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.UserID != userID {
		return nil, models.NewForbiddenError("You do not own this product")
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	product, err := s.GetOwnedProduct(ctx, in.UserID, in.ProductID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Product name cannot be empty")
		}
		product.Name = name
		product.Slug = validation.Slugify(name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, models.NewValidationError("Price must be greater than zero")
		}
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Active != nil {
		product.Active = *in.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateStoreCache(ctx, product.StoreID)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uint) error {
	product, err := s.GetOwnedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	s.invalidateStoreCache(ctx, product.StoreID)
	return nil
}

func (s *ProductService) invalidateStoreCache(ctx context.Context, storeID uint) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err == nil {
		cache.InvalidateStore(ctx, store.Slug)
	}
}
