// Package workflow drives order status changes through a finite state machine.
package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/looplab/fsm"
	domainErrors "github.com/wekeepgrowing/shop-stripe/internal/domain/errors"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/model"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/money"
	"github.com/wekeepgrowing/shop-stripe/internal/domain/provider"
)

const (
	EventCreate             = "create"
	EventAddCharge          = "add_charge"
	EventAcknowledgePayment = "acknowledge_payment"
)

type transition struct {
	event     string
	src       []model.OrderStatus
	dst       model.OrderStatus
	adminOnly bool
	condition func(order *model.Order) error
}

var transitions = []transition{
	{
		event: EventCreate,
		src:   []model.OrderStatus{model.OrderStatusNew},
		dst:   model.OrderStatusCreated,
	},
	{
		event: EventAddCharge,
		src:   []model.OrderStatus{model.OrderStatusCreated},
		dst:   model.OrderStatusChargeCreditCard,
	},
	{
		event:     EventAcknowledgePayment,
		src:       []model.OrderStatus{model.OrderStatusChargeCreditCard},
		dst:       model.OrderStatusPaymentConfirmed,
		adminOnly: true,
		condition: func(order *model.Order) error {
			if !order.IsFullyPaid() {
				return domainErrors.ErrNotFullyPaid
			}
			return nil
		},
	},
}

func lookup(event string) (transition, bool) {
	for _, t := range transitions {
		if t.event == event {
			return t, true
		}
	}
	return transition{}, false
}

func newMachine(order *model.Order) *fsm.FSM {
	events := make(fsm.Events, 0, len(transitions))
	for _, t := range transitions {
		src := make([]string, 0, len(t.src))
		for _, s := range t.src {
			src = append(src, string(s))
		}
		events = append(events, fsm.EventDesc{Name: t.event, Src: src, Dst: string(t.dst)})
	}

	current := order.Status
	if current == "" {
		current = model.OrderStatusNew
	}
	return fsm.NewFSM(string(current), events, fsm.Callbacks{})
}

// Fire runs a transition on the order. The status is only changed when the
// source state, permission and condition checks all pass; apply runs before
// the state change and may veto it by returning an error.
func Fire(ctx context.Context, order *model.Order, event string, admin bool, apply func() error) error {
	t, ok := lookup(event)
	if !ok {
		return fmt.Errorf("unknown order event %q", event)
	}

	machine := newMachine(order)
	reject := func(err error) error {
		return &domainErrors.TransitionError{Event: event, Status: machine.Current(), Err: err}
	}

	if !machine.Can(event) {
		return reject(domainErrors.ErrTransitionNotAllowed)
	}
	if t.adminOnly && !admin {
		return reject(domainErrors.ErrPermissionDenied)
	}
	if t.condition != nil {
		if err := t.condition(order); err != nil {
			return reject(err)
		}
	}
	if apply != nil {
		if err := apply(); err != nil {
			return err
		}
	}

	if err := machine.Event(ctx, event); err != nil {
		return reject(err)
	}
	order.Status = model.OrderStatus(machine.Current())
	return nil
}

// Create moves a blank order into the created status.
func Create(ctx context.Context, order *model.Order) error {
	return Fire(ctx, order, EventCreate, false, nil)
}

// AddCharge records a successful card charge as an order payment. The amount
// is the charge's minor units divided by the currency subunit factor, and the
// charge currency must match the order currency.
func AddCharge(ctx context.Context, order *model.Order, charge *provider.Charge) error {
	return Fire(ctx, order, EventAddCharge, false, func() error {
		if !strings.EqualFold(order.Currency, strings.ToUpper(charge.Currency)) {
			return fmt.Errorf("%w: order in %s, charge in %s", domainErrors.ErrCurrencyMismatch, order.Currency, strings.ToUpper(charge.Currency))
		}
		amount, err := money.FromMinorUnits(charge.Amount, charge.Currency)
		if err != nil {
			return err
		}
		order.Payments = append(order.Payments, model.OrderPayment{
			OrderID:       order.ID,
			Amount:        amount.Amount,
			Currency:      amount.Currency,
			TransactionID: charge.ID,
			PaymentMethod: model.PaymentMethodStripe,
		})
		return nil
	})
}

// AcknowledgePayment confirms a fully paid order. Staff only.
func AcknowledgePayment(ctx context.Context, order *model.Order, admin bool) error {
	return Fire(ctx, order, EventAcknowledgePayment, admin, nil)
}

// AvailableTransitions lists the events that may fire from the order's current status.
func AvailableTransitions(order *model.Order, admin bool) []string {
	machine := newMachine(order)
	available := make([]string, 0)
	for _, event := range machine.AvailableTransitions() {
		t, ok := lookup(event)
		if !ok || (t.adminOnly && !admin) {
			continue
		}
		if t.condition != nil && t.condition(order) != nil {
			continue
		}
		available = append(available, event)
	}
	sort.Strings(available)
	return available
}
