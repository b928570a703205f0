package domain

// SeatRequest asks the seat service for one seat of a class on a trip leg.
type SeatRequest struct {
	TravelDate   string    `json:"travelDate"`
	TrainNumber  string    `json:"trainNumber"`
	StartStation string    `json:"startStation"`
	DestStation  string    `json:"destStation"`
	SeatType     SeatClass `json:"seatType"`
}

// Ticket is the allocation result and the only record of the consumed seat.
type Ticket struct {
	SeatNo       int    `json:"seatNo"`
	StartStation string `json:"startStation"`
	DestStation  string `json:"destStation"`
}

// SeatRelease identifies an allocated seat that has to be handed back.
type SeatRelease struct {
	SagaID       string    `json:"sagaId"`
	TravelDate   string    `json:"travelDate"`
	TrainNumber  string    `json:"trainNumber"`
	StartStation string    `json:"startStation"`
	DestStation  string    `json:"destStation"`
	SeatType     SeatClass `json:"seatType"`
	SeatNo       int       `json:"seatNo"`
}

func NewSeatRelease(sagaID string, req SeatRequest, t Ticket) SeatRelease {
	return SeatRelease{
		SagaID:       sagaID,
		TravelDate:   req.TravelDate,
		TrainNumber:  req.TrainNumber,
		StartStation: req.StartStation,
		DestStation:  req.DestStation,
		SeatType:     req.SeatType,
		SeatNo:       t.SeatNo,
	}
}
