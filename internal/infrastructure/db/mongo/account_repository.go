package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formgate/accounts-api/internal/core/domain"
	"github.com/formgate/accounts-api/internal/core/ports"
)

const accountCollection = "accounts"

// excludeHash is the ordinary projection: every read path except the
// credential lookup strips the password hash at the store boundary.
var excludeHash = bson.M{"password_hash": 0}

type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

// EnsureIndexes creates the unique indexes backing the email and national-id
// invariants. Uniqueness is enforced here by the store, not by application
// pre-checks, so concurrent duplicate registrations race safely.
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "national_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

type mongoAccount struct {
	ID            string   `bson:"_id"`
	Email         string   `bson:"email"`
	PasswordHash  string   `bson:"password_hash,omitempty"`
	Name          string   `bson:"name"`
	LastName      string   `bson:"last_name"`
	NationalID    string   `bson:"national_id"`
	IsActive      bool     `bson:"is_active"`
	Roles         []string `bson:"roles"`
	ParentAdminID string   `bson:"parent_admin_id,omitempty"`
	CreatedAt     int64    `bson:"created_at"`
	UpdatedAt     int64    `bson:"updated_at"`
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := fromDomain(account)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return toDomain(&doc), nil
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var doc mongoAccount
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(excludeHash)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toDomain(&doc), nil
}

// FindByEmailWithHash is the credential-lookup projection: the one read that
// includes the password hash, for login verification only.
func (r *MongoAccountRepository) FindByEmailWithHash(ctx context.Context, email string) (*domain.Account, error) {
	var doc mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return toDomain(&doc), nil
}

func (r *MongoAccountRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *MongoAccountRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	// Matching a scalar against an array field is Mongo's "contains".
	return r.findMany(ctx, bson.M{"roles": string(role)})
}

func (r *MongoAccountRepository) FindChildren(ctx context.Context, adminID string) ([]domain.Account, error) {
	return r.findMany(ctx, bson.M{"parent_admin_id": adminID})
}

func (r *MongoAccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) findMany(ctx context.Context, filter bson.M) ([]domain.Account, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(excludeHash))
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoAccount
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(docs))
	for i := range docs {
		accounts = append(accounts, *toDomain(&docs[i]))
	}
	return accounts, nil
}

func fromDomain(a *domain.Account) mongoAccount {
	roles := make([]string, len(a.Roles))
	for i, r := range a.Roles {
		roles[i] = string(r)
	}
	return mongoAccount{
		ID:            a.ID,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		Name:          a.Name,
		LastName:      a.LastName,
		NationalID:    a.NationalID,
		IsActive:      a.IsActive,
		Roles:         roles,
		ParentAdminID: a.ParentAdminID,
		CreatedAt:     a.CreatedAt.Unix(),
		UpdatedAt:     a.UpdatedAt.Unix(),
	}
}

func toDomain(doc *mongoAccount) *domain.Account {
	roles := make([]domain.Role, len(doc.Roles))
	for i, r := range doc.Roles {
		roles[i] = domain.Role(r)
	}
	return &domain.Account{
		ID:            doc.ID,
		Email:         doc.Email,
		PasswordHash:  doc.PasswordHash,
		Name:          doc.Name,
		LastName:      doc.LastName,
		NationalID:    doc.NationalID,
		IsActive:      doc.IsActive,
		Roles:         roles,
		ParentAdminID: doc.ParentAdminID,
		CreatedAt:     unixToTime(doc.CreatedAt),
		UpdatedAt:     unixToTime(doc.UpdatedAt),
	}
}

var _ ports.AccountRepository = (*MongoAccountRepository)(nil)
