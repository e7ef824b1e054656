package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ListingRent = "rent"
	ListingSale = "sale"

	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusRented    = "rented"

	RentMonthly = "monthly"
	RentYearly  = "yearly"

	DefaultCurrency = "AED"
)

var (
	ListingTypes   = []string{ListingRent, ListingSale}
	PropertyTypes  = []string{"apartment", "villa", "plot", "commercial"}
	Availabilities = []string{StatusAvailable, StatusSold, StatusRented}
	RentFrequency  = []string{RentMonthly, RentYearly}
)

// Image is one stored listing photo. Order inside Property.Images is the
// display order.
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

type Location struct {
	Type    string `bson:"type" json:"type"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type Property struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	ListingType   string             `bson:"listingType" json:"listingType"`
	Price         float64            `bson:"price" json:"price"`
	Currency      string             `bson:"currency" json:"currency"`
	RentFrequency string             `bson:"rentFrequency,omitempty" json:"rentFrequency,omitempty"`
	Deposit       *float64           `bson:"deposit,omitempty" json:"deposit,omitempty"`
	Images        []Image            `bson:"images" json:"images"`
	Location      Location           `bson:"location" json:"location"`
	Bedrooms      int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms     int                `bson:"bathrooms" json:"bathrooms"`
	Area          float64            `bson:"area" json:"area"`
	Amenities     StringList         `bson:"amenities" json:"amenities"`
	Type          string             `bson:"type" json:"type"`
	Furnished     bool               `bson:"furnished" json:"furnished"`
	Agent         primitive.ObjectID `bson:"agent" json:"agent"`
	Status        string             `bson:"status" json:"status"`
	IsApproved    bool               `bson:"isApproved" json:"isApproved"`
	IsFeatured    bool               `bson:"isFeatured" json:"isFeatured"`
	IsTopPick     bool               `bson:"isTopPick" json:"isTopPick"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PubliclyVisible reports whether the listing may appear on public read paths.
func (p *Property) PubliclyVisible() bool {
	return p.IsApproved && p.IsActive
}

// AgentSummary is the subset of the owning user embedded in listing responses.
type AgentSummary struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  string             `json:"role,omitempty"`
}

// PropertyWithAgent is a listing with its agent resolved.
type PropertyWithAgent struct {
	Property
	Agent *AgentSummary `json:"agent"`
}

func Contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
