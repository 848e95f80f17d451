package models

import "time"

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 10
	MaxCommentLength = 500
)

type Review struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	CarID     string    `json:"carId" bson:"car_id"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type ReviewView struct {
	Review
	Car  *CarSummary  `json:"car,omitempty"`
	User *UserSummary `json:"user,omitempty"`
}
