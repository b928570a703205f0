package domain

// ExhaustedSecondClass is the economy counter value at which second class is
// treated as sold out, provided first class has no headroom either. The
// value coincides with the second-class wire code and is kept as observed.
const ExhaustedSecondClass = int(SeatClassSecond)

// TripQuery selects one trip on one date between two stations.
type TripQuery struct {
	TripID     string `json:"tripId"`
	TravelDate string `json:"travelDate"`
	From       string `json:"from"`
	To         string `json:"to"`
}

type Trip struct {
	TripID              string `json:"tripId"`
	TrainTypeName       string `json:"trainTypeName"`
	StartStationName    string `json:"startStationName"`
	StationsName        string `json:"stationsName"`
	TerminalStationName string `json:"terminalStationName"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
}

// TripResponse is the computed view of a trip for a station pair and date.
type TripResponse struct {
	TripID          string            `json:"tripId"`
	TrainTypeName   string            `json:"trainTypeName"`
	StartStation    string            `json:"startStation"`
	TerminalStation string            `json:"terminalStation"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	EconomyClass    int               `json:"economyClass"`
	ConfortClass    int               `json:"confortClass"`
	Prices          map[string]string `json:"prices"`
}

// TripAvailability is the trip detail the saga fetches once per reservation.
type TripAvailability struct {
	TripResponse TripResponse `json:"tripResponse"`
	Trip         Trip         `json:"trip"`
}

// HasSeatsFor applies the availability rule. Second class is only refused
// when the economy counter sits at ExhaustedSecondClass and first class is
// empty as well.
func (t TripAvailability) HasSeatsFor(class SeatClass) bool {
	if class == SeatClassFirst {
		return t.TripResponse.ConfortClass != 0
	}
	return !(t.TripResponse.EconomyClass == ExhaustedSecondClass && t.TripResponse.ConfortClass == 0)
}

// PriceFor returns the quoted price for the class.
func (t TripAvailability) PriceFor(class SeatClass) (string, bool) {
	p, ok := t.TripResponse.Prices[class.PriceKey()]
	return p, ok
}
