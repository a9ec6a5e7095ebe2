package model

// Venue is a bookable space with fixed capacity. Venue records are owned by
// the catalog and immutable once published; the booking core only reads them.
type Venue struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Location    string  `json:"location" bson:"location"`
	Capacity    int     `json:"capacity" bson:"capacity"`
	BasePrice   float64 `json:"base_price" bson:"base_price"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Rating      float64 `json:"rating,omitempty" bson:"rating,omitempty"`
}
