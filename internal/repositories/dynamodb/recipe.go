package dynamodb

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

const entity = "recipe"

// DynamoDBAPI is the subset of the DynamoDB client used by the recipe store
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// RecipeRepository stores recipes as items keyed by "id" in a single table
type RecipeRepository struct {
	client DynamoDBAPI
	table  string
	logger *logrus.Logger
}

// NewRecipeRepository creates a new DynamoDB recipe repository
func NewRecipeRepository(client DynamoDBAPI, table string, logger *logrus.Logger) *RecipeRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &RecipeRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Put writes the item unconditionally
func (r *RecipeRepository) Put(ctx context.Context, recipe *models.Recipe) error {
	item, err := attributevalue.MarshalMap(recipe)
	if err != nil {
		return repositories.ValidationError(entity, recipe.ID, err)
	}

	start := time.Now()
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	r.logCall("put", recipe.ID, start, err)
	if err != nil {
		return wrapError("put", recipe.ID, err)
	}
	return nil
}

// Get performs a point read on the id key
func (r *RecipeRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	start := time.Now()
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(id),
	})
	r.logCall("get", id, start, err)
	if err != nil {
		return nil, wrapError("get", id, err)
	}

	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError(entity, id)
	}

	var recipe models.Recipe
	if err := attributevalue.UnmarshalMap(out.Item, &recipe); err != nil {
		return nil, repositories.NewRepositoryError("get", entity, id, err)
	}
	return &recipe, nil
}

// Update sets name, ingredients and instructions on the item and returns
// every attribute of the item after the update.
func (r *RecipeRepository) Update(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error) {
	ingredients, err := attributevalue.Marshal(fields.Ingredients)
	if err != nil {
		return nil, repositories.ValidationError(entity, id, err)
	}

	start := time.Now()
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              key(id),
		UpdateExpression: aws.String("SET #name = :name, ingredients = :ingredients, instructions = :instructions"),
		// name is a reserved word
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":         &types.AttributeValueMemberS{Value: fields.Name},
			":ingredients":  ingredients,
			":instructions": &types.AttributeValueMemberS{Value: fields.Instructions},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	r.logCall("update", id, start, err)
	if err != nil {
		return nil, wrapError("update", id, err)
	}

	var recipe models.Recipe
	if err := attributevalue.UnmarshalMap(out.Attributes, &recipe); err != nil {
		return nil, repositories.NewRepositoryError("update", entity, id, err)
	}
	return &recipe, nil
}

// Delete removes the item at id
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       key(id),
	})
	r.logCall("delete", id, start, err)
	if err != nil {
		return wrapError("delete", id, err)
	}
	return nil
}

// List scans the whole table, following LastEvaluatedKey until exhausted
func (r *RecipeRepository) List(ctx context.Context) ([]*models.Recipe, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})

	start := time.Now()
	recipes := make([]*models.Recipe, 0)
	pages := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logCall("list", "", start, err)
			return nil, wrapError("list", "", err)
		}
		pages++

		var batch []*models.Recipe
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, repositories.NewRepositoryError("list", entity, "", err)
		}
		recipes = append(recipes, batch...)
	}

	r.logger.WithFields(logrus.Fields{
		"operation": "list",
		"table":     r.table,
		"pages":     pages,
		"count":     len(recipes),
		"duration":  time.Since(start),
	}).Debug("Scan completed")

	return recipes, nil
}

// Ping describes the table to confirm it is reachable
func (r *RecipeRepository) Ping(ctx context.Context) error {
	out, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	})
	if err != nil {
		return repositories.UnavailableError("ping", entity, "", err)
	}
	if out.Table != nil && out.Table.TableStatus != types.TableStatusActive {
		return repositories.UnavailableError("ping", entity, "",
			errors.New("table status is "+string(out.Table.TableStatus)))
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing
func (r *RecipeRepository) Close() error {
	return nil
}

func (r *RecipeRepository) logCall(operation, id string, start time.Time, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"duration":  time.Since(start),
	}
	if id != "" {
		fields["recipe_id"] = id
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("DynamoDB call failed")
		return
	}
	r.logger.WithFields(fields).Debug("DynamoDB call completed")
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// wrapError classifies an SDK error. Throttling, missing tables, server-side
// faults and transport failures mean the store is unavailable.
func wrapError(op, id string, err error) error {
	var (
		notFound   *types.ResourceNotFoundException
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
		internal   *types.InternalServerError
		netErr     net.Error
	)
	switch {
	case errors.As(err, &notFound),
		errors.As(err, &throughput),
		errors.As(err, &limit),
		errors.As(err, &internal),
		errors.As(err, &netErr):
		return repositories.UnavailableError(op, entity, id, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultServer {
		return repositories.UnavailableError(op, entity, id, err)
	}

	return repositories.NewRepositoryError(op, entity, id, err)
}
