package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

const languageCollection = "languages"

// LanguageRepository persists the shared language catalog. Updates are
// version-guarded: the write filter includes the snapshot's version, so a
// concurrent edit surfaces as domain.ErrVersionConflict instead of a lost
// update.
type LanguageRepository struct {
	coll *mongo.Collection
}

func NewLanguageRepository(db *mongo.Database) *LanguageRepository {
	return &LanguageRepository{coll: db.Collection(languageCollection)}
}

type projectRefDoc struct {
	ProjectID string `bson:"project_id"`
	OwnerID   string `bson:"owner_id"`
}

type languageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Label     string             `bson:"label"`
	Stack     string             `bson:"stack"`
	Projects  []projectRefDoc    `bson:"projects"`
	Version   int64              `bson:"version"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func toRefDocs(refs []domain.ProjectRef) []projectRefDoc {
	docs := make([]projectRefDoc, 0, len(refs))
	for _, ref := range refs {
		docs = append(docs, projectRefDoc{ProjectID: ref.ProjectID, OwnerID: ref.OwnerID})
	}
	return docs
}

func (d languageDoc) toDomain() *domain.Language {
	refs := make([]domain.ProjectRef, 0, len(d.Projects))
	for _, ref := range d.Projects {
		refs = append(refs, domain.ProjectRef{ProjectID: ref.ProjectID, OwnerID: ref.OwnerID})
	}
	return &domain.Language{
		ID:        d.ID.Hex(),
		Label:     d.Label,
		Stack:     domain.Stack(d.Stack),
		Projects:  refs,
		Version:   d.Version,
		CreatedAt: unixToTime(d.CreatedAt),
		UpdatedAt: unixToTime(d.UpdatedAt),
	}
}

func (r *LanguageRepository) Create(ctx context.Context, language *domain.Language) (*domain.Language, error) {
	now := nowUnix()
	doc := languageDoc{
		Label:     language.Label,
		Stack:     string(language.Stack),
		Projects:  toRefDocs(language.Projects),
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert language: %w", err)
	}
	return r.FindByID(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

func (r *LanguageRepository) FindByID(ctx context.Context, id string) (*domain.Language, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEntityNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *LanguageRepository) FindByLabel(ctx context.Context, label string) (*domain.Language, error) {
	return r.findOne(ctx, bson.M{"label": label})
}

func (r *LanguageRepository) findOne(ctx context.Context, filter bson.M) (*domain.Language, error) {
	var doc languageDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find language: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *LanguageRepository) List(ctx context.Context) ([]*domain.Language, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer cursor.Close(ctx)

	var languages []*domain.Language
	for cursor.Next(ctx) {
		var doc languageDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode language: %w", err)
		}
		languages = append(languages, doc.toDomain())
	}
	return languages, cursor.Err()
}

func (r *LanguageRepository) FindOwnersReferencing(ctx context.Context, languageID string) ([]string, error) {
	lang, err := r.FindByID(ctx, languageID)
	if err != nil {
		return nil, err
	}
	return lang.Owners(), nil
}

func (r *LanguageRepository) ExistsOwnerReference(ctx context.Context, languageID, ownerID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(languageID)
	if err != nil {
		return false, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid, "projects.owner_id": ownerID})
	if err != nil {
		return false, fmt.Errorf("count language refs: %w", err)
	}
	return n > 0, nil
}

// Update writes the row only when the stored version still matches the
// snapshot the caller read, bumping the version on success.
func (r *LanguageRepository) Update(ctx context.Context, language *domain.Language) error {
	oid, err := primitive.ObjectIDFromHex(language.ID)
	if err != nil {
		return domain.ErrEntityNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"label":      language.Label,
			"stack":      string(language.Stack),
			"projects":   toRefDocs(language.Projects),
			"updated_at": nowUnix(),
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "version": language.Version}, update)
	if err != nil {
		return fmt.Errorf("update language: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}
	language.Version++
	return nil
}

func (r *LanguageRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEntityNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete language: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

// DetachProject removes the project's reference from every language row.
func (r *LanguageRepository) DetachProject(ctx context.Context, projectID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"projects.project_id": projectID},
		bson.M{
			"$pull": bson.M{"projects": bson.M{"project_id": projectID}},
			"$inc":  bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("detach project: %w", err)
	}
	return nil
}
