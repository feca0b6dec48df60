package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

const cropsCollection = "crops"

// CropRepository persists crop listings for the farmer service.
type CropRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCropRepository(db *mongo.Database) *CropRepository {
	return &CropRepository{db: db, coll: db.Collection(cropsCollection)}
}

type mongoCrop struct {
	CropID      int64   `bson:"crop_id"`
	FarmerID    int64   `bson:"farmer_id"`
	Name        string  `bson:"crop_name"`
	Type        string  `bson:"crop_type"`
	Quantity    int     `bson:"crop_qty"`
	Price       float64 `bson:"crop_price"`
	Description string  `bson:"crop_description,omitempty"`
	ImageURL    string  `bson:"image_url,omitempty"`
	Location    string  `bson:"location,omitempty"`
}

func toMongoCrop(c *domain.Crop) mongoCrop {
	return mongoCrop{
		CropID:      c.ID,
		FarmerID:    c.FarmerID,
		Name:        c.Name,
		Type:        c.Type,
		Quantity:    c.Quantity,
		Price:       c.Price,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Location:    c.Location,
	}
}

func (mc *mongoCrop) toDomain() domain.Crop {
	return domain.Crop{
		ID:          mc.CropID,
		FarmerID:    mc.FarmerID,
		Name:        mc.Name,
		Type:        mc.Type,
		Quantity:    mc.Quantity,
		Price:       mc.Price,
		Description: mc.Description,
		ImageURL:    mc.ImageURL,
		Location:    mc.Location,
	}
}

func (r *CropRepository) Create(ctx context.Context, crop *domain.Crop) (*domain.Crop, error) {
	id, err := nextID(ctx, r.db, cropsCollection)
	if err != nil {
		return nil, err
	}
	created := *crop
	created.ID = id
	if _, err := r.coll.InsertOne(ctx, toMongoCrop(&created)); err != nil {
		return nil, fmt.Errorf("insert crop: %w", err)
	}
	return &created, nil
}

func (r *CropRepository) FindByID(ctx context.Context, id int64) (*domain.Crop, error) {
	var mc mongoCrop
	if err := r.coll.FindOne(ctx, bson.M{"crop_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCropNotFound
		}
		return nil, fmt.Errorf("find crop: %w", err)
	}
	crop := mc.toDomain()
	return &crop, nil
}

func (r *CropRepository) ListByFarmer(ctx context.Context, farmerID int64) ([]domain.Crop, error) {
	return r.list(ctx, bson.M{"farmer_id": farmerID})
}

func (r *CropRepository) ListAll(ctx context.Context) ([]domain.Crop, error) {
	return r.list(ctx, bson.M{})
}

func (r *CropRepository) list(ctx context.Context, filter bson.M) ([]domain.Crop, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	defer cursor.Close(ctx)

	var crops []domain.Crop
	for cursor.Next(ctx) {
		var mc mongoCrop
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode crop: %w", err)
		}
		crops = append(crops, mc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate crops: %w", err)
	}
	return crops, nil
}

func (r *CropRepository) Update(ctx context.Context, crop *domain.Crop) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"crop_id": crop.ID}, toMongoCrop(crop))
	if err != nil {
		return fmt.Errorf("update crop: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}

func (r *CropRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"crop_id": id})
	if err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}
