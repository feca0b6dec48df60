package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

// CropService implements crop listing management for farmers.
type CropService struct {
	crops ports.CropRepository
	log   zerolog.Logger
}

func NewCropService(crops ports.CropRepository, log zerolog.Logger) *CropService {
	return &CropService{crops: crops, log: log}
}

func (s *CropService) Publish(ctx context.Context, farmerID int64, in ports.CropInput) (*domain.Crop, error) {
	crop := &domain.Crop{
		FarmerID:    farmerID,
		Name:        in.Name,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Location:    in.Location,
	}
	created, err := s.crops.Create(ctx, crop)
	if err != nil {
		return nil, fmt.Errorf("publish crop: %w", err)
	}
	return created, nil
}

func (s *CropService) Get(ctx context.Context, id int64) (*domain.Crop, error) {
	return s.crops.FindByID(ctx, id)
}

func (s *CropService) ListMine(ctx context.Context, farmerID int64) ([]domain.Crop, error) {
	return s.crops.ListByFarmer(ctx, farmerID)
}

func (s *CropService) ListAll(ctx context.Context) ([]domain.Crop, error) {
	return s.crops.ListAll(ctx)
}

// Update rewrites a crop's listing fields. Only the owning farmer may
// update it.
func (s *CropService) Update(ctx context.Context, farmerID, cropID int64, in ports.CropInput) (*domain.Crop, error) {
	crop, err := s.owned(ctx, farmerID, cropID)
	if err != nil {
		return nil, err
	}

	crop.Name = in.Name
	crop.Type = in.Type
	crop.Quantity = in.Quantity
	crop.Price = in.Price
	crop.Description = in.Description
	crop.ImageURL = in.ImageURL
	crop.Location = in.Location

	if err := s.crops.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("update crop %d: %w", cropID, err)
	}
	return crop, nil
}

func (s *CropService) Remove(ctx context.Context, farmerID, cropID int64) error {
	if _, err := s.owned(ctx, farmerID, cropID); err != nil {
		return err
	}
	if err := s.crops.Delete(ctx, cropID); err != nil {
		return fmt.Errorf("delete crop %d: %w", cropID, err)
	}
	return nil
}

func (s *CropService) owned(ctx context.Context, farmerID, cropID int64) (*domain.Crop, error) {
	crop, err := s.crops.FindByID(ctx, cropID)
	if err != nil {
		if errors.Is(err, domain.ErrCropNotFound) {
			return nil, domain.ErrCropNotFound
		}
		return nil, fmt.Errorf("find crop %d: %w", cropID, err)
	}
	if crop.FarmerID != farmerID {
		return nil, domain.ErrForbidden
	}
	return crop, nil
}
