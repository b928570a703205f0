package domain

// FoodOrder is created against a committed order when food was selected.
type FoodOrder struct {
	OrderID     string   `json:"orderId"`
	FoodType    FoodType `json:"foodType"`
	StationName string   `json:"stationName,omitempty"`
	StoreName   string   `json:"storeName,omitempty"`
	FoodName    string   `json:"foodName"`
	Price       float64  `json:"price"`
}

// Consign is a parcel consignment attached to a committed order.
type Consign struct {
	OrderID    string  `json:"orderId"`
	AccountID  string  `json:"accountId"`
	HandleDate string  `json:"handleDate"`
	TargetDate string  `json:"targetDate"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Consignee  string  `json:"consignee"`
	Phone      string  `json:"phone"`
	Weight     float64 `json:"weight"`
	IsWithin   bool    `json:"isWithin"`
}

type AssuranceBinding struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
	TypeID  int    `json:"typeIndex"`
}
