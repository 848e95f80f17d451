package models

import (
	"math"
	"time"
)

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalApproved  RentalStatus = "approved"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalPending:  {RentalApproved, RentalCancelled},
	RentalApproved: {RentalCompleted, RentalCancelled},
	RentalActive:   {RentalCompleted, RentalCancelled},
}

// CanTransition reports whether a rental may move from s to next.
// Completed and cancelled are terminal.
func (s RentalStatus) CanTransition(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Holding reports whether a rental in this status keeps its car unavailable.
func (s RentalStatus) Holding() bool { return s == RentalActive || s == RentalApproved }

func (s RentalStatus) Terminal() bool { return s == RentalCompleted || s == RentalCancelled }

type Rental struct {
	ID        string       `json:"id" bson:"_id"`
	UserID    string       `json:"userId" bson:"user_id"`
	CarID     string       `json:"carId" bson:"car_id"`
	StartDate time.Time    `json:"startDate" bson:"start_date"`
	EndDate   time.Time    `json:"endDate" bson:"end_date"`
	TotalCost float64      `json:"totalCost" bson:"total_cost"`
	Status    RentalStatus `json:"status" bson:"status"`
	CreatedAt time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updated_at"`
}

// RentalDays is the whole-day length of [start, end), rounded up.
func RentalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// RentalCost is RentalDays × pricePerDay.
func RentalCost(start, end time.Time, pricePerDay float64) float64 {
	return float64(RentalDays(start, end)) * pricePerDay
}

// RentalView is a rental joined with the car and renter fields the dashboards show.
type RentalView struct {
	Rental
	Car  *CarSummary  `json:"car,omitempty"`
	User *UserSummary `json:"user,omitempty"`
}

type CarSummary struct {
	ID          string  `json:"id"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Image       string  `json:"image,omitempty"`
	PricePerDay float64 `json:"pricePerDay,omitempty"`
}

type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (c Car) Summary() *CarSummary {
	return &CarSummary{ID: c.ID, Brand: c.Brand, Model: c.Model, Image: c.Image, PricePerDay: c.PricePerDay}
}
