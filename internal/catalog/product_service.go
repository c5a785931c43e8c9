package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogerrors "github.com/elkisser/the-cookie-box/internal/catalog/errors"
	"github.com/elkisser/the-cookie-box/internal/events"
	"github.com/elkisser/the-cookie-box/internal/storage"
)

type Service interface {
	ListPublic(ctx context.Context, page, limit int) ([]ProductResponse, int64, error)
	ListAdmin(ctx context.Context, page, limit int) ([]ProductResponse, int64, error)
	Get(ctx context.Context, id string) (ProductResponse, error)

	Create(ctx context.Context, req CreateProductRequest, image io.Reader, filename string) (ProductResponse, error)
	Update(ctx context.Context, id string, req UpdateProductRequest, image io.Reader, filename string) (ProductResponse, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	uploads   storage.Service
	publisher events.Publisher
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewService(repo Repository, uploads storage.Service, publisher events.Publisher, logger *zap.Logger) Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:      repo,
		uploads:   uploads,
		publisher: publisher,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (s *service) parseProductID(id string) (uuid.UUID, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, catalogerrors.ErrInvalidProductID
	}
	return pid, nil
}

func (s *service) ListPublic(ctx context.Context, page, limit int) ([]ProductResponse, int64, error) {
	return s.list(ctx, page, limit, true)
}

func (s *service) ListAdmin(ctx context.Context, page, limit int) ([]ProductResponse, int64, error) {
	return s.list(ctx, page, limit, false)
}

func (s *service) list(ctx context.Context, page, limit int, onlyActive bool) ([]ProductResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	products, err := s.repo.List(ctx, ListParams{
		OnlyActive: onlyActive,
		Limit:      int32(limit),
		Offset:     int32((page - 1) * limit),
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, onlyActive)
	if err != nil {
		return nil, 0, err
	}

	return toProductResponses(products), total, nil
}

func (s *service) Get(ctx context.Context, id string) (ProductResponse, error) {
	pid, err := s.parseProductID(id)
	if err != nil {
		return ProductResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, pid)
	if errors.Is(err, sql.ErrNoRows) {
		return ProductResponse{}, catalogerrors.ErrProductNotFound
	}
	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(p), nil
}

// Create persists a new product. When an image is supplied it is
// uploaded first and the resolved URL is stored with the record.
func (s *service) Create(ctx context.Context, req CreateProductRequest, image io.Reader, filename string) (ProductResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return ProductResponse{}, catalogerrors.MapValidationError(err)
	}
	if req.Price.IsNegative() {
		return ProductResponse{}, catalogerrors.ErrInvalidPrice
	}

	imageURL, err := s.maybeUpload(ctx, image, filename)
	if err != nil {
		return ProductResponse{}, err
	}

	p, err := s.repo.Create(ctx, Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    imageURL,
		IsActive:    true,
	})
	if err != nil {
		return ProductResponse{}, err
	}

	s.publish(ctx, events.TypeProductCreated, p)
	return toProductResponse(p), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateProductRequest, image io.Reader, filename string) (ProductResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return ProductResponse{}, catalogerrors.MapValidationError(err)
	}
	if req.Price.IsNegative() {
		return ProductResponse{}, catalogerrors.ErrInvalidPrice
	}

	pid, err := s.parseProductID(id)
	if err != nil {
		return ProductResponse{}, err
	}

	imageURL := req.ImageURL
	if image != nil {
		imageURL, err = s.maybeUpload(ctx, image, filename)
		if err != nil {
			return ProductResponse{}, err
		}
	}

	p, err := s.repo.Update(ctx, Product{
		ID:          pid,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    imageURL,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ProductResponse{}, catalogerrors.ErrProductNotFound
	}
	if err != nil {
		return ProductResponse{}, err
	}

	s.publish(ctx, events.TypeProductUpdated, p)
	return toProductResponse(p), nil
}

// Delete soft-deletes: the record is deactivated, the storefront hides
// it, and the deletion event lets the consumer sweep it out of any
// persisted carts.
func (s *service) Delete(ctx context.Context, id string) error {
	pid, err := s.parseProductID(id)
	if err != nil {
		return err
	}

	err = s.repo.SetActive(ctx, pid, false)
	if errors.Is(err, sql.ErrNoRows) {
		return catalogerrors.ErrProductNotFound
	}
	if err != nil {
		return err
	}

	s.publish(ctx, events.TypeProductDeleted, Product{ID: pid})
	return nil
}

func (s *service) Restore(ctx context.Context, id string) error {
	pid, err := s.parseProductID(id)
	if err != nil {
		return err
	}

	err = s.repo.SetActive(ctx, pid, true)
	if errors.Is(err, sql.ErrNoRows) {
		return catalogerrors.ErrProductNotFound
	}
	if err != nil {
		return err
	}

	s.publish(ctx, events.TypeProductUpdated, Product{ID: pid})
	return nil
}

func (s *service) maybeUpload(ctx context.Context, image io.Reader, filename string) (string, error) {
	if image == nil {
		return "", nil
	}

	url, err := s.uploads.UploadImage(ctx, image, filename)
	if err != nil {
		s.logger.Error("product image upload failed", zap.Error(err))
		return "", catalogerrors.ErrImageUploadFailed
	}
	return url, nil
}

func (s *service) publish(ctx context.Context, eventType string, p Product) {
	payload, err := json.Marshal(toProductResponse(p))
	if err != nil {
		s.logger.Error("event payload marshal failed", zap.Error(err))
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Type:        eventType,
		AggregateID: p.ID.String(),
		Payload:     payload,
	})
}
