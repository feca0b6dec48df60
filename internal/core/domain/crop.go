package domain

// Crop is a listing published by a farmer.
type Crop struct {
	ID          int64   `json:"id"`
	FarmerID    int64   `json:"farmerId"`
	Name        string  `json:"cropName"`
	Type        string  `json:"cropType"` // vegetable/fruit
	Quantity    int     `json:"cropQty"`
	Price       float64 `json:"cropPrice"`
	Description string  `json:"cropDescription,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Location    string  `json:"location,omitempty"`
}
