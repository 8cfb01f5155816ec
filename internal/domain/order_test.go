package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// helper для создания валидного заказа.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:        "order-1",
		ProductID: "product-1",
		Price:     96.40,
		PlacedAt:  now,
		Status:    domain.OrderStatusJustCreated,
		Discount:  domain.OrderDiscountApplied,
		Version:   0,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no product",
			mut: func(o *domain.Order) {
				o.ProductID = ""
			},
		},
		{
			name: "negative price",
			mut: func(o *domain.Order) {
				o.Price = -1
			},
		},
		{
			name: "unknown status",
			mut: func(o *domain.Order) {
				o.Status = "shipped"
			},
		},
		{
			name: "unknown discount",
			mut: func(o *domain.Order) {
				o.Discount = "half_price"
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"just_created", "accepted", "paid"} {
		if _, err := domain.ParseOrderStatus(raw); err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}

	// Произвольный текст больше не принимается как статус.
	if _, err := domain.ParseOrderStatus("Whatever I Want"); !errors.Is(err, domain.ErrOrderStatusUnknown) {
		t.Fatalf("expected ErrOrderStatusUnknown, got %v", err)
	}
}

func TestOrderStatusCanTransition(t *testing.T) {
	cases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.OrderStatusJustCreated, domain.OrderStatusAccepted, true},
		{domain.OrderStatusAccepted, domain.OrderStatusPaid, true},
		{domain.OrderStatusJustCreated, domain.OrderStatusPaid, false},
		{domain.OrderStatusAccepted, domain.OrderStatusJustCreated, false},
		{domain.OrderStatusPaid, domain.OrderStatusAccepted, false},
		{domain.OrderStatusPaid, domain.OrderStatusJustCreated, false},
		{domain.OrderStatusJustCreated, domain.OrderStatusJustCreated, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Fatalf("transition %s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}
