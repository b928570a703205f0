package domain

type OrderStatus int

const (
	OrderStatusNotPaid OrderStatus = 0
	OrderStatusPaid    OrderStatus = 1
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusNotPaid:
		return "NOTPAID"
	case OrderStatusPaid:
		return "PAID"
	default:
		return "UNKNOWN"
	}
}

// Order is the authoritative record committed to the order service.
type Order struct {
	ID                     string      `json:"id"`
	BoughtDate             string      `json:"boughtDate"`
	TravelDate             string      `json:"travelDate"`
	TravelTime             string      `json:"travelTime"`
	AccountID              string      `json:"accountId"`
	ContactsName           string      `json:"contactsName"`
	DocumentType           int         `json:"documentType"`
	ContactsDocumentNumber string      `json:"contactsDocumentNumber"`
	TrainNumber            string      `json:"trainNumber"`
	SeatClass              SeatClass   `json:"seatClass"`
	SeatNumber             string      `json:"seatNumber"`
	From                   string      `json:"from"`
	To                     string      `json:"to"`
	Status                 OrderStatus `json:"status"`
	Price                  string      `json:"price"`
}

// OrderSummary is what the caller gets back for a committed order.
type OrderSummary struct {
	OrderID     string      `json:"orderId"`
	TrainNumber string      `json:"trainNumber"`
	TravelDate  string      `json:"travelDate"`
	TravelTime  string      `json:"travelTime"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	SeatClass   SeatClass   `json:"seatClass"`
	SeatNumber  string      `json:"seatNumber"`
	Price       string      `json:"price"`
	Status      OrderStatus `json:"status"`
}

func (o Order) Summary() *OrderSummary {
	return &OrderSummary{
		OrderID:     o.ID,
		TrainNumber: o.TrainNumber,
		TravelDate:  o.TravelDate,
		TravelTime:  o.TravelTime,
		From:        o.From,
		To:          o.To,
		SeatClass:   o.SeatClass,
		SeatNumber:  o.SeatNumber,
		Price:       o.Price,
		Status:      o.Status,
	}
}
