package upstream

import (
	"net/http"
	"time"

	"github.com/Domenick1991/trainticket/config"
)

// Clients bundles one adapter per collaborator.
type Clients struct {
	Security     *SecurityClient
	Contacts     *ContactsClient
	Travel       *TravelClient
	Station      *StationClient
	Seat         *SeatClient
	Order        *OrderClient
	Assurance    *AssuranceClient
	Food         *FoodClient
	Consign      *ConsignClient
	User         *UserClient
	Notification *NotificationClient
}

func New(cfg config.UpstreamsConfig, httpClient *http.Client, stepTimeout time.Duration) *Clients {
	client := func(service, baseURL string) *Client {
		return NewClient(service, baseURL, httpClient, stepTimeout)
	}
	return &Clients{
		Security:     NewSecurityClient(client("security", cfg.Security)),
		Contacts:     NewContactsClient(client("contacts", cfg.Contacts)),
		Travel:       NewTravelClient(client("travel", cfg.Travel)),
		Station:      NewStationClient(client("station", cfg.Station)),
		Seat:         NewSeatClient(client("seat", cfg.Seat)),
		Order:        NewOrderClient(client("order", cfg.Order)),
		Assurance:    NewAssuranceClient(client("assurance", cfg.Assurance)),
		Food:         NewFoodClient(client("food", cfg.Food)),
		Consign:      NewConsignClient(client("consign", cfg.Consign)),
		User:         NewUserClient(client("user", cfg.User)),
		Notification: NewNotificationClient(client("notification", cfg.Notification)),
	}
}
