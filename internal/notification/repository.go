package notification

import (
	"context"
	"errors"

	"TapaalTracker/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection(notificationsCollection)}
}

func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mail_id", Value: 1}, {Key: "kind", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Find returns the notification of kind for a mail record, or nil.
func (r *NotificationRepository) Find(ctx context.Context, mailID primitive.ObjectID, kind string) (*Notification, error) {
	var n Notification
	err := r.collection.FindOne(ctx, bson.M{"mail_id": mailID, "kind": kind}).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// Save upserts n by (mail_id, kind), counting the attempt.
func (r *NotificationRepository) Save(ctx context.Context, n *Notification) error {
	filter := bson.M{"mail_id": n.MailID, "kind": n.Kind}
	update := bson.M{
		"$set": bson.M{
			"tracking_code": n.TrackingCode,
			"reference":     n.Reference,
			"department":    n.Department,
			"recipient":     n.Recipient,
			"subject":       n.Subject,
			"status":        n.Status,
			"error":         n.Error,
			"updated_at":    n.UpdatedAt,
		},
		"$inc":         bson.M{"attempts": 1},
		"$setOnInsert": bson.M{"created_at": n.CreatedAt},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// List returns notifications newest first, optionally restricted to one kind.
func (r *NotificationRepository) List(ctx context.Context, kind string, page, limit int64) ([]Notification, int64, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(response.Skip(page, limit)).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	list := []Notification{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
