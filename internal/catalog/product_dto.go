package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// ==================== REQUEST STRUCTS ====================

type CreateProductRequest struct {
	Name        string          `validate:"required,min=2,max=120"`
	Description string          `validate:"max=2000"`
	Price       decimal.Decimal `validate:"required"`
}

type UpdateProductRequest struct {
	Name        string          `validate:"required,min=2,max=120"`
	Description string          `validate:"max=2000"`
	Price       decimal.Decimal `validate:"required"`
	// ImageURL keeps the current image when no new file is uploaded.
	ImageURL string
}

type ListQuery struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=12"`
}

// ==================== RESPONSE STRUCTS ====================

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

func toProductResponse(p Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}
