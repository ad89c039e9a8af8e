package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	KindReceived = "received" // new inward mail announced to its department
	KindOverdue  = "overdue"  // outward mail past its due date and not delivered
)

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped" // no recipient or email disabled
)

// Notification records one email about one mail record. There is at most one
// notification per (mail, kind).
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Kind         string             `bson:"kind" json:"kind"`
	MailID       primitive.ObjectID `bson:"mail_id" json:"mail_id"`
	TrackingCode string             `bson:"tracking_code" json:"tracking_code"`
	Reference    string             `bson:"reference" json:"reference"`
	Department   string             `bson:"department" json:"department"`
	Recipient    string             `bson:"recipient,omitempty" json:"recipient,omitempty"`
	Subject      string             `bson:"subject" json:"subject"`
	Status       string             `bson:"status" json:"status"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	Attempts     int                `bson:"attempts" json:"attempts"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Done reports whether the notification needs no further attempts.
func (n *Notification) Done() bool {
	return n.Status == StatusSent || n.Status == StatusSkipped
}
