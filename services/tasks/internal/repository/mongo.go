package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/h30s/taskmanager/services/tasks/internal/models"
	"github.com/h30s/taskmanager/shared/taskapi"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ TaskRepository = (*MongoTaskRepository)(nil)

// taskDocument - документ коллекции tasks
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toModel() *models.Task {
	return &models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      taskapi.Status(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// creationOrder - порядок выдачи List; ObjectID монотонен внутри одной секунды
var creationOrder = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

type MongoTaskRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoTaskRepository(ctx context.Context, uri, database, collection string) (*MongoTaskRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: creationOrder})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &MongoTaskRepository{client: client, coll: coll}, nil
}

func (r *MongoTaskRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoTaskRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	oid := primitive.NewObjectID()
	if err := beforeInsert(task, oid.Hex(), now()); err != nil {
		return err
	}

	doc := taskDocument{
		ID:          oid,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var doc taskDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoTaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(creationOrder))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toModel())
	}
	return tasks, nil
}

// Update заменяет изменяемые поля; createdAt берётся из хранилища
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return models.ErrNotFound
	}
	if err := beforeReplace(task, now()); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"updatedAt":   task.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	*task = *doc.toModel()
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
