package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"salonstock/internal/models"
	"salonstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImageURLExpiry is how long a presigned product image link stays valid.
const ImageURLExpiry = 15 * time.Minute

// MaxImageSize caps product image uploads.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ProductService covers product details and images. Quantity is never touched here;
// see StockService.
type ProductService interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	UpdateDetails(ctx context.Context, tenantID, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error)
	UploadImage(ctx context.Context, tenantID, id uuid.UUID, filename string, reader io.Reader, size int64) (*models.Product, error)
	// WithImageURLs fills ImageURL on each product that has an image.
	WithImageURLs(ctx context.Context, products []*models.Product) []*models.Product
}

type productService struct {
	productRepo repositories.ProductRepository
	images      ImageStore // nil when object storage is not configured
	logger      zerolog.Logger
}

func NewProductService(productRepo repositories.ProductRepository, images ImageStore, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		logger:      logger.With().Str("component", "product_service").Logger(),
	}
}

func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	s.fillImageURL(ctx, product)
	return product, nil
}

func (s *productService) UpdateDetails(ctx context.Context, tenantID, id uuid.UUID, update *models.ProductUpdate) (*models.Product, error) {
	const op = "update product"
	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, models.Rejected(op, err)
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, models.Invalid(op, "product name cannot be empty")
		}
		product.Name = name
	}
	if update.Brand != nil {
		product.Brand = strings.TrimSpace(*update.Brand)
	}
	if update.Variant != nil {
		product.Variant = strings.TrimSpace(*update.Variant)
	}
	if update.LowStockThreshold != nil {
		if *update.LowStockThreshold < 0 {
			return nil, models.Invalid(op, "low stock threshold cannot be negative")
		}
		product.LowStockThreshold = *update.LowStockThreshold
	}
	if update.Notes != nil {
		product.Notes = *update.Notes
	}
	if err := s.productRepo.UpdateDetails(ctx, product); err != nil {
		return nil, &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	s.fillImageURL(ctx, product)
	return product, nil
}

func (s *productService) UploadImage(ctx context.Context, tenantID, id uuid.UUID, filename string, reader io.Reader, size int64) (*models.Product, error) {
	const op = "upload product image"
	if s.images == nil {
		return nil, models.Rejected(op, errors.New("image storage is not configured"))
	}
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return nil, models.Invalid(op, "unsupported image type %q", ext)
	}
	if size <= 0 || size > MaxImageSize {
		return nil, models.Invalid(op, "image must be between 1 byte and %d bytes", MaxImageSize)
	}

	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, models.Rejected(op, err)
	}

	key := fmt.Sprintf("%s/%s/%s%s", tenantID, product.ID, uuid.New(), ext)
	if err := s.images.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, &models.MutationError{Op: op, Outcome: models.OutcomeNoChange, Err: err}
	}
	if err := s.productRepo.UpdateImage(ctx, tenantID, product.ID, key); err != nil {
		if rbErr := s.images.Delete(ctx, key); rbErr != nil {
			s.logger.Warn().Err(rbErr).Str("key", key).Msg("removing orphaned image failed")
		}
		return nil, &models.MutationError{Op: op, Outcome: models.OutcomeRolledBack, Err: err}
	}

	if previous := product.ImageRef; previous != "" {
		if err := s.images.Delete(ctx, previous); err != nil {
			s.logger.Warn().Err(err).Str("key", previous).Msg("removing replaced image failed")
		}
	}
	product.ImageRef = key
	s.fillImageURL(ctx, product)
	return product, nil
}

func (s *productService) WithImageURLs(ctx context.Context, products []*models.Product) []*models.Product {
	for _, p := range products {
		s.fillImageURL(ctx, p)
	}
	return products
}

func (s *productService) fillImageURL(ctx context.Context, product *models.Product) {
	if s.images == nil || product.ImageRef == "" {
		return
	}
	url, err := s.images.PresignedURL(ctx, product.ImageRef, ImageURLExpiry)
	if err != nil {
		s.logger.Warn().Err(err).Str("product_id", product.ID.String()).Msg("presigning image url failed")
		return
	}
	product.ImageURL = url
}
