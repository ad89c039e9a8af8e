package mail

import (
	"time"

	"TapaalTracker/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Direction tells inward (received) and outward (dispatched) mail apart.
type Direction string

const (
	Inward  Direction = "inward"
	Outward Direction = "outward"
)

var Directions = []Direction{Inward, Outward}

func (d Direction) Valid() bool { return d == Inward || d == Outward }

func (d Direction) Collection() string { return string(d) + "_mails" }

func (d Direction) Prefix() string {
	if d == Inward {
		return "INW"
	}
	return "OUT"
}

// Label is the capitalised name used in user-facing messages.
func (d Direction) Label() string {
	if d == Inward {
		return "Inward"
	}
	return "Outward"
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusInProgress Status = "in-progress"
	StatusDraft      Status = "draft"
	StatusSent       Status = "sent"
	StatusInTransit  Status = "in-transit"
	StatusDelivered  Status = "delivered"
)

// lifecycles lists each direction's statuses in the only order a record may move through.
var lifecycles = map[Direction][]Status{
	Inward:  {StatusPending, StatusApproved, StatusInProgress, StatusDelivered},
	Outward: {StatusDraft, StatusSent, StatusInTransit, StatusDelivered},
}

// Statuses returns the lifecycle of d, first status first.
func (d Direction) Statuses() []Status { return lifecycles[d] }

func (d Direction) InitialStatus() Status { return lifecycles[d][0] }

func (d Direction) HasStatus(s Status) bool {
	for _, st := range lifecycles[d] {
		if st == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether a record of direction d may move from one status to
// another. Rewriting the current status is allowed; moving backwards is not.
func CanTransition(d Direction, from, to Status) bool {
	if !d.HasStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	fromIdx, toIdx := -1, -1
	for i, s := range lifecycles[d] {
		switch s {
		case from:
			fromIdx = i
		case to:
			toIdx = i
		}
	}
	return fromIdx >= 0 && toIdx > fromIdx
}

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Mail is one inward or outward dispatch record. Counterpart is the sender of inward
// mail and the receiver of outward mail; HandledBy is who received or sent it.
type Mail struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Reference          string               `bson:"reference" json:"reference"`
	TrackingCode       string               `bson:"tracking_code" json:"tracking_code"`
	Direction          Direction            `bson:"direction" json:"direction"`
	Counterpart        string               `bson:"counterpart" json:"counterpart"`
	CounterpartAddress string               `bson:"counterpart_address,omitempty" json:"counterpart_address,omitempty"`
	HandledBy          string               `bson:"handled_by" json:"handled_by"`
	HandoverTo         string               `bson:"handover_to,omitempty" json:"handover_to,omitempty"`
	DeliveryMode       string               `bson:"delivery_mode" json:"delivery_mode"`
	Subject            string               `bson:"subject,omitempty" json:"subject,omitempty"`
	Details            string               `bson:"details" json:"details"`
	ReferenceDetails   string               `bson:"reference_details,omitempty" json:"reference_details,omitempty"`
	Priority           string               `bson:"priority" json:"priority"`
	Department         string               `bson:"department" json:"department"`
	Status             Status               `bson:"status" json:"status"`
	Date               time.Time            `bson:"date" json:"date"`
	DueDate            *time.Time           `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Cost               float64              `bson:"cost,omitempty" json:"cost,omitempty"`
	Attachments        []storage.Attachment `bson:"attachments" json:"attachments"`
	CreatedAt          time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at" json:"updated_at"`
}

// CreateRequest is bound from JSON or multipart form data. Sender/ReceivedBy apply to
// inward mail, Receiver/ReceiverAddress/SentBy to outward mail.
type CreateRequest struct {
	Sender           string  `json:"sender" form:"sender" validate:"max=200"`
	ReceivedBy       string  `json:"received_by" form:"received_by" validate:"max=120"`
	Receiver         string  `json:"receiver" form:"receiver" validate:"max=200"`
	ReceiverAddress  string  `json:"receiver_address" form:"receiver_address" validate:"max=500"`
	SentBy           string  `json:"sent_by" form:"sent_by" validate:"max=120"`
	HandoverTo       string  `json:"handover_to" form:"handover_to" validate:"max=120"`
	DeliveryMode     string  `json:"delivery_mode" form:"delivery_mode" validate:"max=60"`
	Subject          string  `json:"subject" form:"subject" validate:"max=300"`
	Details          string  `json:"details" form:"details" validate:"max=5000"`
	ReferenceDetails string  `json:"reference_details" form:"reference_details" validate:"max=500"`
	Priority         string  `json:"priority" form:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Department       string  `json:"department" form:"department" validate:"max=120"`
	Date             string  `json:"date" form:"date"`
	DueDate          string  `json:"due_date" form:"due_date"`
	Cost             float64 `json:"cost" form:"cost" validate:"gte=0"`
}

// UpdateRequest is a partial update. Reference and tracking code are not updatable.
type UpdateRequest struct {
	Counterpart        *string  `json:"counterpart" validate:"omitempty,max=200"`
	CounterpartAddress *string  `json:"counterpart_address" validate:"omitempty,max=500"`
	HandledBy          *string  `json:"handled_by" validate:"omitempty,max=120"`
	HandoverTo         *string  `json:"handover_to" validate:"omitempty,max=120"`
	DeliveryMode       *string  `json:"delivery_mode" validate:"omitempty,max=60"`
	Subject            *string  `json:"subject" validate:"omitempty,max=300"`
	Details            *string  `json:"details" validate:"omitempty,max=5000"`
	ReferenceDetails   *string  `json:"reference_details" validate:"omitempty,max=500"`
	Priority           *string  `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Department         *string  `json:"department" validate:"omitempty,max=120"`
	Status             *string  `json:"status" validate:"omitempty,oneof=pending approved in-progress draft sent in-transit delivered"`
	Date               *string  `json:"date"`
	DueDate            *string  `json:"due_date"`
	Cost               *float64 `json:"cost" validate:"omitempty,gte=0"`
}

// Summary is the total plus one count per lifecycle status.
type Summary struct {
	Total    int64            `json:"total"`
	ByStatus map[Status]int64 `json:"by_status"`
}
