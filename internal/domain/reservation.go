package domain

import (
	"errors"
	"strings"
)

// SeatClass is the ticket tier. The numeric values are the wire codes used
// by every collaborator.
type SeatClass int

const (
	SeatClassFirst  SeatClass = 2
	SeatClassSecond SeatClass = 3
)

func (c SeatClass) Valid() bool {
	return c == SeatClassFirst || c == SeatClassSecond
}

func (c SeatClass) String() string {
	switch c {
	case SeatClassFirst:
		return "FirstClass"
	case SeatClassSecond:
		return "SecondClass"
	default:
		return "Unknown"
	}
}

// PriceKey is the key under which the travel service quotes this class.
func (c SeatClass) PriceKey() string {
	if c == SeatClassFirst {
		return "confortClass"
	}
	return "economyClass"
}

type FoodType int

const (
	FoodNone         FoodType = 0
	FoodTrain        FoodType = 1
	FoodStationStore FoodType = 2
)

var (
	ErrAccountRequired  = errors.New("account id is required")
	ErrContactsRequired = errors.New("contacts id is required")
	ErrTripRequired     = errors.New("trip id is required")
	ErrStationsRequired = errors.New("from and to stations are required")
	ErrDateRequired     = errors.New("travel date is required")
	ErrInvalidSeatClass = errors.New("seat type must be first or second class")
	ErrInvalidFoodType  = errors.New("food type is not supported")
)

// ReservationRequest is the caller's intent to buy one ticket.
type ReservationRequest struct {
	AccountID  string    `json:"accountId"`
	ContactsID string    `json:"contactsId"`
	TripID     string    `json:"tripId"`
	SeatType   SeatClass `json:"seatType"`
	Date       string    `json:"date"`
	From       string    `json:"from"`
	To         string    `json:"to"`

	Assurance int `json:"assurance"`

	FoodType    FoodType `json:"foodType"`
	StationName string   `json:"stationName"`
	StoreName   string   `json:"storeName"`
	FoodName    string   `json:"foodName"`
	FoodPrice   float64  `json:"foodPrice"`

	HandleDate      string  `json:"handleDate"`
	ConsigneeName   string  `json:"consigneeName"`
	ConsigneePhone  string  `json:"consigneePhone"`
	ConsigneeWeight float64 `json:"consigneeWeight"`
	IsWithin        bool    `json:"isWithin"`
}

func (r ReservationRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.AccountID) == "":
		return ErrAccountRequired
	case strings.TrimSpace(r.ContactsID) == "":
		return ErrContactsRequired
	case strings.TrimSpace(r.TripID) == "":
		return ErrTripRequired
	case strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "":
		return ErrStationsRequired
	case strings.TrimSpace(r.Date) == "":
		return ErrDateRequired
	case !r.SeatType.Valid():
		return ErrInvalidSeatClass
	case r.FoodType < FoodNone || r.FoodType > FoodStationStore:
		return ErrInvalidFoodType
	}
	return nil
}

func (r ReservationRequest) WantsAssurance() bool { return r.Assurance != 0 }
func (r ReservationRequest) WantsFood() bool      { return r.FoodType != FoodNone }
func (r ReservationRequest) WantsConsign() bool   { return r.ConsigneeName != "" }
