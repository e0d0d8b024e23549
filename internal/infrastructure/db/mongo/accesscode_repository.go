package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidvault/video-vault/internal/core/domain"
)

const collectionAccessCodes = "access_codes"

type AccessCodeRepository struct {
	col *mongo.Collection
}

func NewAccessCodeRepository(db *mongo.Database) *AccessCodeRepository {
	return &AccessCodeRepository{col: db.Collection(collectionAccessCodes)}
}

func (r *AccessCodeRepository) FindByCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *AccessCodeRepository) FindByID(ctx context.Context, id string) (*domain.AccessCode, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccessCodeRepository) findOne(ctx context.Context, filter bson.M) (*domain.AccessCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ac domain.AccessCode
	if err := r.col.FindOne(ctx, filter).Decode(&ac); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccessCodeNotFound
		}
		return nil, err
	}
	return &ac, nil
}

func (r *AccessCodeRepository) FindAll(ctx context.Context) ([]*domain.AccessCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var codes []*domain.AccessCode
	for cur.Next(ctx) {
		var ac domain.AccessCode
		if err := cur.Decode(&ac); err != nil {
			return nil, err
		}
		codes = append(codes, &ac)
	}
	return codes, cur.Err()
}

func (r *AccessCodeRepository) Create(ctx context.Context, code *domain.AccessCode) (*domain.AccessCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if code.ID == "" {
		code.ID = uuid.NewString()
	}

	if _, err := r.col.InsertOne(ctx, code); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccessCodeExists
		}
		return nil, err
	}
	return code, nil
}

// BindUser is the compare-and-swap closing the first-redemption race: the
// user binding is written only while no binding exists. The document is then
// re-read unconditionally, so whichever request lost the race observes the
// winner's binding instead of an error.
func (r *AccessCodeRepository) BindUser(ctx context.Context, codeID, userID string) (*domain.AccessCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id": codeID,
		"$or": bson.A{
			bson.M{"user_id": bson.M{"$exists": false}},
			bson.M{"user_id": ""},
		},
	}
	update := bson.M{"$set": bson.M{"user_id": userID, "updated_at": time.Now().UTC()}}

	_, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, codeID)
}

func (r *AccessCodeRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccessCodeNotFound
	}
	return nil
}

// Upsert inserts the code if absent and leaves an existing document exactly
// as it is, so bootstrap seeding never clobbers admin edits.
func (r *AccessCodeRepository) Upsert(ctx context.Context, code *domain.AccessCode) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if code.ID == "" {
		code.ID = uuid.NewString()
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"code": code.Code},
		bson.M{"$setOnInsert": code},
		options.Update().SetUpsert(true))
	return err
}

func (r *AccessCodeRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"is_active": true})
}

func (r *AccessCodeRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"user_id": userID})
}

// UnbindUser detaches every code bound to the user, as part of the delete
// cascade. The codes themselves survive and may be redeemed again.
func (r *AccessCodeRepository) UnbindUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID},
		bson.M{"$unset": bson.M{"user_id": ""}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the unique index on the code string.
func (r *AccessCodeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: uniqueIndex(),
	})
	return err
}
