package models

import (
	"errors"
	"strings"
	"time"
)

type CarStatus string

const (
	CarActive   CarStatus = "active"
	CarReturned CarStatus = "returned"
	CarRemoved  CarStatus = "removed"
)

// Categories is the fixed list offered by the catalog.
var Categories = []string{"Economy", "SUV", "Luxury", "Convertible", "Van"}

type Car struct {
	ID              string    `json:"id" bson:"_id"`
	Brand           string    `json:"brand" bson:"brand"`
	Model           string    `json:"model" bson:"model"`
	Year            int       `json:"year" bson:"year"`
	PricePerDay     float64   `json:"pricePerDay" bson:"price_per_day"`
	Mileage         int       `json:"mileage" bson:"mileage"`
	Seats           int       `json:"seats" bson:"seats"`
	Doors           int       `json:"doors" bson:"doors"`
	Transmission    string    `json:"transmission" bson:"transmission"`
	Location        string    `json:"location" bson:"location"`
	Image           string    `json:"image" bson:"image"`
	Gallery         []string  `json:"gallery" bson:"gallery"`
	IsAvailable     bool      `json:"isAvailable" bson:"is_available"`
	Status          CarStatus `json:"status" bson:"status"`
	Featured        bool      `json:"featured" bson:"featured"`
	Category        string    `json:"category" bson:"category"`
	RatingsAverage  float64   `json:"ratingsAverage" bson:"ratings_average"`
	RatingsQuantity int       `json:"ratingsQuantity" bson:"ratings_quantity"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// ApplyDefaults fills the optional catalog fields the same way for create and update.
func (c *Car) ApplyDefaults() {
	if c.Seats == 0 {
		c.Seats = 5
	}
	if c.Doors == 0 {
		c.Doors = 5
	}
	if strings.TrimSpace(c.Transmission) == "" {
		c.Transmission = "Manual"
	}
	if strings.TrimSpace(c.Location) == "" {
		c.Location = "Main Branch"
	}
	if strings.TrimSpace(c.Category) == "" {
		c.Category = "Economy"
	}
	if c.Gallery == nil {
		c.Gallery = []string{}
	}
	if c.Status == "" {
		c.Status = CarActive
	}
}

func (c *Car) Validate() error {
	if strings.TrimSpace(c.Brand) == "" || strings.TrimSpace(c.Model) == "" {
		return errors.New("brand and model are required")
	}
	if c.Year <= 0 {
		return errors.New("year is required")
	}
	if c.PricePerDay <= 0 {
		return errors.New("price per day must be > 0")
	}
	if c.Mileage < 0 {
		return errors.New("mileage must be >= 0")
	}
	if c.Status == CarRemoved && c.IsAvailable {
		return errors.New("removed car cannot be available")
	}
	return nil
}

// Rentable reports whether a new rental may take the car.
func (c Car) Rentable() bool { return c.IsAvailable && c.Status == CarActive }

// Title is the "Brand Model" label used in reports.
func (c Car) Title() string { return c.Brand + " " + c.Model }

// AddRating folds one more rating into the running mean.
func (c *Car) AddRating(rating int) {
	total := c.RatingsAverage*float64(c.RatingsQuantity) + float64(rating)
	c.RatingsQuantity++
	c.RatingsAverage = total / float64(c.RatingsQuantity)
}
