package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/memberly/portal/internal/core/domain"
)

const memberCollection = "members"

// MongoMemberRepository persists member records in the members collection.
type MongoMemberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MongoMemberRepository {
	return &MongoMemberRepository{coll: db.Collection(memberCollection)}
}

type mongoMember struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func toDoc(m *domain.Member) (mongoMember, error) {
	doc := mongoMember{
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt.Unix(),
		UpdatedAt:    m.UpdatedAt.Unix(),
	}
	if m.ID != "" {
		oid, err := primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			return mongoMember{}, fmt.Errorf("parse member id %q: %w", m.ID, err)
		}
		doc.ID = oid
	}
	return doc, nil
}

func fromDoc(doc mongoMember) *domain.Member {
	return &domain.Member{
		ID:           doc.ID.Hex(),
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func (r *MongoMemberRepository) FindByUsername(ctx context.Context, username string) (*domain.Member, error) {
	var doc mongoMember
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member by username: %w", err)
	}
	return fromDoc(doc), nil
}

func (r *MongoMemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not a valid ObjectID, so no document can match.
		return nil, domain.ErrMemberNotFound
	}

	var doc mongoMember
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member by id: %w", err)
	}
	return fromDoc(doc), nil
}

// FindAll returns every member ordered by _id, which for ObjectIDs follows
// insertion order.
func (r *MongoMemberRepository) FindAll(ctx context.Context) ([]domain.Member, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Member
	for cur.Next(ctx) {
		var doc mongoMember
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		out = append(out, *fromDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

// Save inserts when the member carries no id and replaces the existing
// document otherwise. A violation of the unique username index surfaces as
// domain.ErrDuplicateUsername.
func (r *MongoMemberRepository) Save(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	doc, err := toDoc(member)
	if err != nil {
		return nil, err
	}

	if member.ID == "" {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrDuplicateUsername
			}
			return nil, fmt.Errorf("insert member: %w", err)
		}
		saved := *member
		saved.ID = res.InsertedID.(primitive.ObjectID).Hex()
		return &saved, nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMemberNotFound
	}
	saved := *member
	return &saved, nil
}

func (r *MongoMemberRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("member exists: %w", err)
	}
	return n > 0, nil
}

func (r *MongoMemberRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (r *MongoMemberRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}
