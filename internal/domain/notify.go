package domain

type User struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// NotifyInfo is the confirmation email payload.
type NotifyInfo struct {
	Email       string `json:"email"`
	OrderNumber string `json:"orderNumber"`
	Username    string `json:"username"`
	StartPlace  string `json:"startPlace"`
	EndPlace    string `json:"endPlace"`
	StartTime   string `json:"startTime"`
	Date        string `json:"date"`
	SeatClass   string `json:"seatClass"`
	SeatNumber  string `json:"seatNumber"`
	Price       string `json:"price"`
}

func NewNotifyInfo(o Order, u User) NotifyInfo {
	return NotifyInfo{
		Email:       u.Email,
		OrderNumber: o.ID,
		Username:    u.UserName,
		StartPlace:  o.From,
		EndPlace:    o.To,
		StartTime:   o.TravelTime,
		Date:        o.TravelDate,
		SeatClass:   o.SeatClass.String(),
		SeatNumber:  o.SeatNumber,
		Price:       o.Price,
	}
}
