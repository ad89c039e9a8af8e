package mail

import (
	"context"
	"errors"
	"time"

	"TapaalTracker/internal/config"
	"TapaalTracker/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trackingCodesCollection = "tracking_codes"

// codeClaim reserves a tracking code across both directions. Claims outlive the
// mail they were issued for, so a code is never handed out twice.
type codeClaim struct {
	Code      string             `bson:"_id"`
	Direction Direction          `bson:"direction"`
	MailID    primitive.ObjectID `bson:"mail_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

// MailRepository stores inward and outward mail in separate collections.
// Tracking codes are claimed in a shared collection first, so they are unique
// across both.
type MailRepository struct {
	collections map[Direction]*mongo.Collection
	codes       *mongo.Collection
}

func NewMailRepository(db *mongo.Database) *MailRepository {
	r := &MailRepository{
		collections: map[Direction]*mongo.Collection{},
		codes:       db.Collection(trackingCodesCollection),
	}
	for _, d := range Directions {
		r.collections[d] = db.Collection(d.Collection())
	}
	return r
}

func (r *MailRepository) EnsureIndexes(ctx context.Context) error {
	for _, coll := range r.collections {
		for _, field := range []string{"tracking_code", "reference"} {
			if err := config.UniqueIndex(ctx, coll, field); err != nil {
				return err
			}
		}
	}
	return nil
}

// Create claims m's tracking code and inserts m. ErrDuplicateCode means the code
// is taken in either direction, or the reference is taken in m's direction.
func (r *MailRepository) Create(ctx context.Context, m *Mail) error {
	claim := codeClaim{Code: m.TrackingCode, Direction: m.Direction, MailID: m.ID, CreatedAt: m.CreatedAt}
	if _, err := r.codes.InsertOne(ctx, claim); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCode
		}
		return err
	}
	if _, err := r.collections[m.Direction].InsertOne(ctx, m); err != nil {
		// release the claim so a retry can take a fresh code
		_, delErr := r.codes.DeleteOne(ctx, bson.M{"_id": m.TrackingCode, "mail_id": m.ID})
		if mongo.IsDuplicateKeyError(err) && delErr == nil {
			return ErrDuplicateCode
		}
		return errors.Join(err, delErr)
	}
	return nil
}

func (r *MailRepository) FindByID(ctx context.Context, d Direction, id primitive.ObjectID) (*Mail, error) {
	return r.findOne(ctx, d, bson.M{"_id": id})
}

// FindByKey looks a record up by its reference or tracking code.
func (r *MailRepository) FindByKey(ctx context.Context, d Direction, key string) (*Mail, error) {
	return r.findOne(ctx, d, bson.M{"$or": bson.A{
		bson.M{"reference": key},
		bson.M{"tracking_code": key},
	}})
}

// FindByTrackingCode searches inward mail first, then outward.
func (r *MailRepository) FindByTrackingCode(ctx context.Context, code string) (*Mail, error) {
	for _, d := range Directions {
		m, err := r.findOne(ctx, d, bson.M{"tracking_code": code})
		if err != nil || m != nil {
			return m, err
		}
	}
	return nil, nil
}

func (r *MailRepository) findOne(ctx context.Context, d Direction, filter bson.M) (*Mail, error) {
	var m Mail
	if err := r.collections[d].FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// List returns one page of records matching f, newest first, plus the total match count.
func (r *MailRepository) List(ctx context.Context, d Direction, f Filter) ([]Mail, int64, error) {
	coll := r.collections[d]
	filter := f.BSON()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(response.Skip(f.Page, f.Limit)).
		SetLimit(f.Limit)
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	mails := []Mail{}
	if err := cursor.All(ctx, &mails); err != nil {
		return nil, 0, err
	}
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mails, total, nil
}

// Update applies fields to the record with id. When expect is non-empty the write only
// happens if the stored status still equals expect. Returns nil when nothing matched.
func (r *MailRepository) Update(ctx context.Context, d Direction, id primitive.ObjectID, expect Status, fields bson.M) (*Mail, error) {
	filter := bson.M{"_id": id}
	if expect != "" {
		filter["status"] = expect
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m Mail
	if err := r.collections[d].FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Delete removes the record and returns it, or nil when it did not exist.
func (r *MailRepository) Delete(ctx context.Context, d Direction, id primitive.ObjectID) (*Mail, error) {
	var m Mail
	if err := r.collections[d].FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Count counts records of direction d, restricted to status unless it is empty.
func (r *MailRepository) Count(ctx context.Context, d Direction, status Status) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.collections[d].CountDocuments(ctx, filter)
}

// CountByDepartment groups records of direction d by department name.
func (r *MailRepository) CountByDepartment(ctx context.Context, d Direction) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$department"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collections[d].Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Department string `bson:"_id"`
		Count      int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Department] = row.Count
	}
	return counts, nil
}

// Recent returns the n most recently created records of direction d.
func (r *MailRepository) Recent(ctx context.Context, d Direction, n int64) ([]Mail, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(n)
	cursor, err := r.collections[d].Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	mails := []Mail{}
	if err := cursor.All(ctx, &mails); err != nil {
		return nil, err
	}
	return mails, nil
}

// Overdue returns outward mail whose due date is before now and that is not delivered.
func (r *MailRepository) Overdue(ctx context.Context, now time.Time) ([]Mail, error) {
	filter := bson.M{
		"due_date": bson.M{"$lt": now},
		"status":   bson.M{"$ne": StatusDelivered},
	}
	cursor, err := r.collections[Outward].Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	mails := []Mail{}
	if err := cursor.All(ctx, &mails); err != nil {
		return nil, err
	}
	return mails, nil
}
