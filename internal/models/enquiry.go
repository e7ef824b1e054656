package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EnquiryNew       = "new"
	EnquiryContacted = "contacted"
	EnquiryClosed    = "closed"

	PreferCall    = "call"
	PreferMessage = "message"
)

var (
	EnquiryStatuses = []string{EnquiryNew, EnquiryContacted, EnquiryClosed}
	ContactPrefs    = []string{PreferCall, PreferMessage}
)

// Enquiry is a buyer request about one listing. PropertyTitle is captured at
// creation so the enquiry stays readable after the listing is deleted.
type Enquiry struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Property         primitive.ObjectID  `bson:"property" json:"property"`
	PropertyTitle    string              `bson:"propertyTitle" json:"propertyTitle"`
	Agent            *primitive.ObjectID `bson:"agent,omitempty" json:"agent,omitempty"`
	Name             string              `bson:"name" json:"name"`
	Contact          string              `bson:"contact" json:"contact"`
	Message          string              `bson:"message,omitempty" json:"message,omitempty"`
	PreferredContact string              `bson:"preferredContact" json:"preferredContact"`
	Status           string              `bson:"status" json:"status"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type EnquiryWithAgent struct {
	Enquiry
	Agent *AgentSummary `json:"agent"`
}
