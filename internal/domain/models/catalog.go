package models

// Product is a bookable offering with a fixed unit price per slot.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Slots []Slot  `json:"slots,omitempty"`
}

// Slot is a recurring bookable time window of one product.
type Slot struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
