package department

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Department struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Code         string             `bson:"code" json:"code"`
	Description  string             `bson:"description" json:"description"`
	Head         string             `bson:"head" json:"head"`
	ContactEmail string             `bson:"contact_email" json:"contact_email"`
	Phone        string             `bson:"phone" json:"phone"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Code         string `json:"code" validate:"max=20"`
	Description  string `json:"description" validate:"max=500"`
	Head         string `json:"head" validate:"max=120"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=30"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	Code         *string `json:"code" validate:"omitempty,max=20"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	Head         *string `json:"head" validate:"omitempty,max=120"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}
