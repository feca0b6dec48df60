package ports

import (
	"context"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

// CropRepository persists crop listings for the farmer service.
type CropRepository interface {
	Create(ctx context.Context, crop *domain.Crop) (*domain.Crop, error)
	FindByID(ctx context.Context, id int64) (*domain.Crop, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]domain.Crop, error)
	ListAll(ctx context.Context) ([]domain.Crop, error)
	Update(ctx context.Context, crop *domain.Crop) error
	Delete(ctx context.Context, id int64) error
}

// CropInput is the create/update payload for a crop listing.
type CropInput struct {
	Name        string
	Type        string
	Quantity    int
	Price       float64
	Description string
	ImageURL    string
	Location    string
}

// CropService implements crop management for an authenticated farmer.
type CropService interface {
	Publish(ctx context.Context, farmerID int64, in CropInput) (*domain.Crop, error)
	Get(ctx context.Context, id int64) (*domain.Crop, error)
	ListMine(ctx context.Context, farmerID int64) ([]domain.Crop, error)
	ListAll(ctx context.Context) ([]domain.Crop, error)
	Update(ctx context.Context, farmerID, cropID int64, in CropInput) (*domain.Crop, error)
	Remove(ctx context.Context, farmerID, cropID int64) error
}
