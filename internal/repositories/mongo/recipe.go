package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const entity = "recipe"

// RecipeRepository stores recipes as documents keyed by their "id" field
type RecipeRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *logrus.Logger
}

// NewRecipeRepository creates a Mongo-backed recipe repository over the
// named collection. The caller owns client until Close is called.
func NewRecipeRepository(client *mongo.Client, database, collection string, logger *logrus.Logger) *RecipeRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &RecipeRepository{
		client: client,
		coll:   client.Database(database).Collection(collection),
		logger: logger,
	}
}

// EnsureIndexes creates the unique index on id
func (r *RecipeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return wrapError("create_index", "", err)
	}
	return nil
}

func (r *RecipeRepository) Put(ctx context.Context, recipe *models.Recipe) error {
	start := time.Now()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": recipe.ID}, recipe, options.Replace().SetUpsert(true))
	r.logCall("put", recipe.ID, start, err)
	if err != nil {
		return wrapError("put", recipe.ID, err)
	}
	return nil
}

func (r *RecipeRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	start := time.Now()
	var recipe models.Recipe
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.logCall("get", id, start, nil)
		return nil, repositories.NotFoundError(entity, id)
	}
	r.logCall("get", id, start, err)
	if err != nil {
		return nil, wrapError("get", id, err)
	}
	return normalize(&recipe), nil
}

// Update applies a $set of the mutable fields, inserting the document when
// absent, and returns the document after the update.
func (r *RecipeRepository) Update(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error) {
	update := bson.M{"$set": bson.M{
		"name":         fields.Name,
		"ingredients":  fields.Ingredients,
		"instructions": fields.Instructions,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	start := time.Now()
	var recipe models.Recipe
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&recipe)
	r.logCall("update", id, start, err)
	if err != nil {
		return nil, wrapError("update", id, err)
	}
	return normalize(&recipe), nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	r.logCall("delete", id, start, err)
	if err != nil {
		return wrapError("delete", id, err)
	}
	return nil
}

func (r *RecipeRepository) List(ctx context.Context) ([]*models.Recipe, error) {
	start := time.Now()
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		r.logCall("list", "", start, err)
		return nil, wrapError("list", "", err)
	}
	defer cur.Close(ctx)

	recipes := make([]*models.Recipe, 0)
	for cur.Next(ctx) {
		var recipe models.Recipe
		if err := cur.Decode(&recipe); err != nil {
			return nil, wrapError("list", "", err)
		}
		recipes = append(recipes, normalize(&recipe))
	}
	if err := cur.Err(); err != nil {
		return nil, wrapError("list", "", err)
	}

	r.logCall("list", "", start, nil)
	return recipes, nil
}

func (r *RecipeRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, nil); err != nil {
		return repositories.UnavailableError("ping", entity, "", err)
	}
	return nil
}

func (r *RecipeRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *RecipeRepository) logCall(operation, id string, start time.Time, err error) {
	fields := logrus.Fields{
		"operation":  operation,
		"collection": r.coll.Name(),
		"duration":   time.Since(start),
	}
	if id != "" {
		fields["recipe_id"] = id
	}
	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("MongoDB call failed")
		return
	}
	r.logger.WithFields(fields).Debug("MongoDB call completed")
}

// normalize converts the BSON container types the driver decodes into an
// interface{} back into plain slices and maps.
func normalize(recipe *models.Recipe) *models.Recipe {
	recipe.Ingredients = plain(recipe.Ingredients)
	return recipe
}

func plain(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	default:
		return v
	}
}

func wrapError(op, id string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return repositories.UnavailableError(op, entity, id, err)
	}
	return repositories.NewRepositoryError(op, entity, id, err)
}
