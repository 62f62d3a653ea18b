package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/blog-api/internal/core/domain"
)

type socialDoc struct {
	GitHub    string `bson:"github,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
	Other     string `bson:"other,omitempty"`
}

type userDoc struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash,omitempty"`
	Image        string     `bson:"image,omitempty"`
	Role         string     `bson:"role"`
	Social       *socialDoc `bson:"social,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Image:        d.Image,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.Social != nil {
		u.Social = &domain.SocialLinks{
			GitHub:    d.Social.GitHub,
			LinkedIn:  d.Social.LinkedIn,
			Twitter:   d.Social.Twitter,
			Instagram: d.Social.Instagram,
			Other:     d.Social.Other,
		}
	}
	return u
}

type visitorDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d visitorDoc) toDomain() domain.Visitor {
	return domain.Visitor{
		ID:        d.ID,
		Email:     d.Email,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// UserRepository implements ports.UserRepository. Users and visitors live in
// separate collections, each with a unique email index.
type UserRepository struct {
	users    *mongo.Collection
	visitors *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(collectionUsers),
		visitors: db.Collection(collectionVisitors),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Image:        user.Image,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if s := user.Social; s != nil {
		doc.Social = &socialDoc{GitHub: s.GitHub, LinkedIn: s.LinkedIn, Twitter: s.Twitter, Instagram: s.Instagram, Other: s.Other}
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindVisitorByEmail(ctx context.Context, email string) (*domain.Visitor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc visitorDoc
	if err := r.visitors.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVisitorNotFound
		}
		return nil, fmt.Errorf("find visitor: %w", err)
	}
	v := doc.toDomain()
	return &v, nil
}

func (r *UserRepository) CreateVisitor(ctx context.Context, v *domain.Visitor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := visitorDoc{ID: v.ID, Email: v.Email, CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt}
	if _, err := r.visitors.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert visitor: %w", err)
	}
	return nil
}

func (r *UserRepository) ListVisitors(ctx context.Context) ([]domain.Visitor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.visitors.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find visitors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []visitorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode visitors: %w", err)
	}
	out := make([]domain.Visitor, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
