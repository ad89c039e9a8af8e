package notification

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestNotificationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "tapaal." + notificationsCollection

	mt.Run("find", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "mail_id", Value: id},
			{Key: "kind", Value: KindOverdue},
			{Key: "status", Value: StatusSent},
		}))

		n, err := repo.Find(context.Background(), id, KindOverdue)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if n == nil || !n.Done() || n.MailID != id {
			t.Errorf("notification = %+v", n)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		n, err := repo.Find(context.Background(), primitive.NewObjectID(), KindReceived)
		if err != nil || n != nil {
			t.Errorf("Find = %+v, %v; want nil, nil", n, err)
		}
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))

		now := time.Now()
		err := repo.Save(context.Background(), &Notification{MailID: primitive.NewObjectID(), Kind: KindOverdue, Status: StatusFailed, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			t.Errorf("Save: %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "kind", Value: KindOverdue}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		list, total, err := repo.List(context.Background(), KindOverdue, 1, 10)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 1 || total != 1 {
			t.Errorf("list = %d items, total %d", len(list), total)
		}
	})
}
