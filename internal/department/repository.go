package department

import (
	"context"
	"errors"

	"TapaalTracker/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const departmentsCollection = "departments"

type DepartmentRepository struct {
	collection *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	return &DepartmentRepository{collection: db.Collection(departmentsCollection)}
}

func (r *DepartmentRepository) EnsureIndexes(ctx context.Context) error {
	return config.UniqueIndex(ctx, r.collection, "name")
}

func (r *DepartmentRepository) Create(ctx context.Context, d *Department) error {
	if _, err := r.collection.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrNameTaken
		}
		return err
	}
	return nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Department, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*Department, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *DepartmentRepository) findOne(ctx context.Context, filter bson.M) (*Department, error) {
	var d Department
	if err := r.collection.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// List returns every department, newest first.
func (r *DepartmentRepository) List(ctx context.Context) ([]Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	departments := []Department{}
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Department, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d Department
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
