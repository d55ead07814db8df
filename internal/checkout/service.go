package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/skylight-sports/storefront/internal/api"
	"github.com/skylight-sports/storefront/internal/cart"
	"github.com/skylight-sports/storefront/internal/handoff"
	"github.com/skylight-sports/storefront/internal/validate"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
	"github.com/skylight-sports/storefront/pkg/logger"
)

// ContactForm is the shipping/contact data collected at checkout. All
// fields are presence-validated only; no format checks beyond email.
type ContactForm struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city" validate:"required"`
	ZipCode      string `json:"zip_code" validate:"required"`
}

// Result reports the created order and the amount handed to payment.
type Result struct {
	OrderID string
	Total   decimal.Decimal
}

type orderAPI interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*api.CreateOrderResponse, error)
}

// Service drives the cart-to-order flow: validate, create the order,
// hand off to payment, clear the cart. A backend failure leaves the
// cart and handoff untouched; no partial state is committed.
type Service struct {
	cart   *cart.Manager
	orders orderAPI
	box    *handoff.Box
	logg   *logger.Logger
}

func NewService(cartMgr *cart.Manager, orders orderAPI, box *handoff.Box, logg *logger.Logger) (*Service, error) {
	if cartMgr == nil {
		return nil, errors.New("cart manager is required")
	}
	if orders == nil {
		return nil, errors.New("orders api is required")
	}
	if box == nil {
		return nil, errors.New("handoff box is required")
	}
	return &Service{cart: cartMgr, orders: orders, box: box, logg: logg}, nil
}

// Submit runs the checkout. The empty-cart and form checks happen before
// any network call is issued.
func (s *Service) Submit(ctx context.Context, form ContactForm) (*Result, error) {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}

	total := decimal.Zero
	lines := make([]api.OrderItem, 0, len(items))
	for _, item := range items {
		total = total.Add(item.Subtotal())
		lines = append(lines, api.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}

	order, err := s.orders.CreateOrder(ctx, api.CreateOrderRequest{
		CustomerName: form.CustomerName,
		Email:        form.Email,
		Phone:        form.Phone,
		Address:      form.Address,
		City:         form.City,
		ZipCode:      form.ZipCode,
		Items:        lines,
		TotalAmount:  total.InexactFloat64(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.box.PutPending(ctx, handoff.Pending{
		Amount:        total,
		UserEmail:     form.Email,
		ReferenceType: handoff.ReferenceOrder,
		ReferenceID:   order.OrderID,
	}); err != nil {
		return nil, err
	}
	if err := s.cart.Clear(ctx); err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": order.OrderID,
			"total":    total.String(),
		}), "order created, proceeding to payment")
	}
	return &Result{OrderID: order.OrderID, Total: total}, nil
}
