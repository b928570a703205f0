package reservation

import (
	"context"
	"log"

	"github.com/Domenick1991/trainticket/internal/domain"
)

// enrich attaches the optional extras to a committed order. A failure only
// degrades the message; the last failing step decides which one is shown.
func (s *Service) enrich(ctx context.Context, sg *saga) {
	s.transition(ctx, sg, domain.StateEnriching)
	req := sg.req
	orderID := sg.order.ID

	if req.WantsAssurance() {
		err := s.step(ctx, "assurance", func(ctx context.Context) error {
			return s.deps.Assurance.Create(ctx, req.Assurance, orderID)
		})
		if err != nil {
			s.degrade(sg, MsgAssuranceFail, err)
		}
	}

	if req.WantsFood() {
		food := domain.FoodOrder{
			OrderID:  orderID,
			FoodType: req.FoodType,
			FoodName: req.FoodName,
			Price:    req.FoodPrice,
		}
		if req.FoodType == domain.FoodStationStore {
			food.StationName = req.StationName
			food.StoreName = req.StoreName
		}
		err := s.step(ctx, "food", func(ctx context.Context) error {
			return s.deps.Food.Create(ctx, food)
		})
		if err != nil {
			s.degrade(sg, MsgFoodFail, err)
		}
	}

	if req.WantsConsign() {
		consign := domain.Consign{
			OrderID:    orderID,
			AccountID:  req.AccountID,
			HandleDate: req.HandleDate,
			TargetDate: req.Date,
			From:       req.From,
			To:         req.To,
			Consignee:  req.ConsigneeName,
			Phone:      req.ConsigneePhone,
			Weight:     req.ConsigneeWeight,
			IsWithin:   req.IsWithin,
		}
		err := s.step(ctx, "consign", func(ctx context.Context) error {
			return s.deps.Consign.Create(ctx, consign)
		})
		if err != nil {
			s.degrade(sg, MsgConsignFail, err)
		}
	}
}

func (s *Service) degrade(sg *saga, msg string, err error) {
	log.Printf("reservation degraded: saga=%s order=%s msg=%q err=%v", sg.id, sg.order.ID, msg, err)
	sg.response.Msg = msg
}

// notify sends the confirmation in the background. Its outcome never reaches
// the caller.
func (s *Service) notify(ctx context.Context, order domain.Order) {
	if s.deps.Users == nil || s.deps.Notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		nctx, cancel := context.WithTimeout(ctx, s.notificationTimeout)
		defer cancel()

		err := s.step(nctx, "notification", func(ctx context.Context) error {
			user, err := s.deps.Users.Get(ctx, order.AccountID)
			if err != nil {
				return err
			}
			return s.deps.Notifier.PreserveSuccess(ctx, domain.NewNotifyInfo(order, *user))
		})
		if err != nil {
			log.Printf("failed to send reservation notification: order=%s err=%v", order.ID, err)
		}
	}()
}
