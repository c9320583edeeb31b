package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storefront/commerce-api/internal/core/domain"
)

const (
	collectionAdmins = "admins"
	collectionUsers  = "users"
)

// AccountRepository reads credentials from either the admins or the users
// collection. It is the only reader that decodes the password field.
type AccountRepository struct {
	col      *mongo.Collection
	role     string
	notFound error
}

func NewAdminAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAdmins), role: domain.RoleAdmin, notFound: domain.ErrAdminNotFound}
}

func NewUserAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionUsers), role: domain.RoleUser, notFound: domain.ErrUserNotFound}
}

type accountDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Status    string             `bson:"status,omitempty"`
	IsDeleted bool               `bson:"isDeleted,omitempty"`
}

func (d accountDoc) toDomain(role string) *domain.Account {
	status := domain.AccountStatus(d.Status)
	if status == "" {
		status = domain.StatusActive
	}
	return &domain.Account{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         role,
		Status:       status,
		IsDeleted:    d.IsDeleted,
	}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) FindByIDAndEmail(ctx context.Context, id, email string) (*domain.Account, error) {
	oid, err := objectID(id, r.notFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid, "email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("find %s: %w", r.role, err)
	}
	return doc.toDomain(r.role), nil
}

// UpdatePassword replaces the stored hash of the account matching id and email.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, email, passwordHash string) error {
	oid, err := objectID(id, r.notFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "email": email},
		bson.M{"$set": bson.M{"password": passwordHash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update %s password: %w", r.role, err)
	}
	if res.MatchedCount == 0 {
		return r.notFound
	}
	return nil
}
