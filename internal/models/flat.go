package models

// Flat represents a rental listing owned by a landlord.
type Flat struct {
	ID           int64   `json:"id"`
	LandlordID   int64   `json:"landlord_id"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	LocationLink string  `json:"location_link"`
	Rent         float64 `json:"rent"`
	Facilities   string  `json:"facilities"`
	ImagePath    string  `json:"image_path"`
	IsRented     bool    `json:"is_rented"`

	// Derived fields, filled in by the service layer.
	ImageURL *string `json:"image_url"`
	Contact  string  `json:"contact,omitempty"`
}
