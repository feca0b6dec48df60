package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

const (
	farmersCollection = "farmer_profiles"
	dealersCollection = "dealer_profiles"
)

type mongoProfile struct {
	ProfileID int64  `bson:"profile_id"`
	UserID    int64  `bson:"user_id"`
	Username  string `bson:"username"`
}

// FarmerProfileRepository stores the farmer satellite records.
type FarmerProfileRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewFarmerProfileRepository(db *mongo.Database) *FarmerProfileRepository {
	return &FarmerProfileRepository{db: db, coll: db.Collection(farmersCollection)}
}

func (r *FarmerProfileRepository) Create(ctx context.Context, p *domain.FarmerProfile) (*domain.FarmerProfile, error) {
	id, err := nextID(ctx, r.db, farmersCollection)
	if err != nil {
		return nil, err
	}
	doc := mongoProfile{ProfileID: id, UserID: p.UserID, Username: p.Username}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert farmer profile: %w", err)
	}
	created := *p
	created.ID = id
	return &created, nil
}

func (r *FarmerProfileRepository) FindByUsername(ctx context.Context, username string) (*domain.FarmerProfile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find farmer profile: %w", err)
	}
	return &domain.FarmerProfile{ID: mp.ProfileID, UserID: mp.UserID, Username: mp.Username}, nil
}

// DealerProfileRepository stores the dealer satellite records.
type DealerProfileRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewDealerProfileRepository(db *mongo.Database) *DealerProfileRepository {
	return &DealerProfileRepository{db: db, coll: db.Collection(dealersCollection)}
}

func (r *DealerProfileRepository) Create(ctx context.Context, p *domain.DealerProfile) (*domain.DealerProfile, error) {
	id, err := nextID(ctx, r.db, dealersCollection)
	if err != nil {
		return nil, err
	}
	doc := mongoProfile{ProfileID: id, UserID: p.UserID, Username: p.Username}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert dealer profile: %w", err)
	}
	created := *p
	created.ID = id
	return &created, nil
}

func (r *DealerProfileRepository) FindByUsername(ctx context.Context, username string) (*domain.DealerProfile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find dealer profile: %w", err)
	}
	return &domain.DealerProfile{ID: mp.ProfileID, UserID: mp.UserID, Username: mp.Username}, nil
}
