package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

const roleCollection = "roles"

// roleDescriptions is the canonical reference data seeded at startup.
var roleDescriptions = map[domain.RoleName]string{
	domain.RoleSuperadmin: "Full control over every resource.",
	domain.RoleAdmin:      "May manage shared catalog entries referenced by owned projects.",
	domain.RoleUnknown:    "Default tier for every account.",
}

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(roleCollection)}
}

type roleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Severity    int                `bson:"severity"`
	Description string             `bson:"description"`
}

func toRoleDoc(r domain.Role) roleDoc {
	doc := roleDoc{Name: string(r.Name), Severity: r.Severity, Description: r.Description}
	if oid, err := primitive.ObjectIDFromHex(r.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d roleDoc) toDomain() domain.Role {
	return domain.Role{
		ID:          d.ID.Hex(),
		Name:        domain.RoleName(d.Name),
		Severity:    d.Severity,
		Description: d.Description,
	}
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	role := doc.toDomain()
	return &role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"severity": -1}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cursor.Close(ctx)

	var roles []*domain.Role
	for cursor.Next(ctx) {
		var doc roleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		role := doc.toDomain()
		roles = append(roles, &role)
	}
	return roles, cursor.Err()
}

// EnsureReferenceData upserts the canonical role rows. Called once at
// startup; a failure aborts the process.
func (r *RoleRepository) EnsureReferenceData(ctx context.Context) error {
	for _, name := range domain.CanonicalRoleNames() {
		update := bson.M{"$set": bson.M{
			"severity":    name.Severity(),
			"description": roleDescriptions[name],
		}}
		_, err := r.coll.UpdateOne(ctx, bson.M{"name": string(name)}, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
	}
	return nil
}
