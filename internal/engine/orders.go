package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/maitred-run/maitred/internal/catalog"
	"github.com/maitred-run/maitred/internal/entity"
	"github.com/maitred-run/maitred/internal/validate"
)

// ItemRequest is one requested line item. The engine resolves the dish
// reference against the menu and snapshots the price into the order, so
// later menu changes never reprice an existing order.
type ItemRequest struct {
	DishRef  string
	Quantity int
}

// resolveItems prices the requested items against the menu.
func (e *Engine) resolveItems(reqs []ItemRequest, tableID string) ([]entity.OrderItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("order needs at least one item")
	}
	if e.menu == nil {
		return nil, fmt.Errorf("no menu configured")
	}

	items := make([]entity.OrderItem, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("dish %q: quantity must be positive, got %d", req.DishRef, req.Quantity)
		}
		price, err := e.menu.PriceOf(req.DishRef)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &Error{
					Kind:    ErrNotFound,
					Message: fmt.Sprintf("dish %q is not on the menu", req.DishRef),
					TableID: tableID,
					Err:     err,
				}
			}
			if errors.Is(err, catalog.ErrUnavailable) {
				return nil, &Error{
					Kind:    ErrConflict,
					Message: fmt.Sprintf("dish %q is not available", req.DishRef),
					TableID: tableID,
					Err:     err,
				}
			}
			return nil, fmt.Errorf("price dish %q: %w", req.DishRef, err)
		}
		items = append(items, entity.OrderItem{
			DishRef:  req.DishRef,
			Quantity: req.Quantity,
			Price:    price.Cents,
		})
	}
	return items, nil
}

// PlaceOrder opens an order against a table. The table must be occupied
// or reserved; nothing about the table's status changes. When any check
// fails no order record is created and no event is recorded.
func (e *Engine) PlaceOrder(ctx context.Context, tableID string, reqs []ItemRequest, opts ...OpOption) (entity.Order, error) {
	cfg := applyOpOptions(opts)

	unlock := e.locks.acquire(tableID)
	defer unlock()

	t, err := e.st.Table(tableID)
	if err != nil {
		return entity.Order{}, notFound(entity.KindTable, tableID, err)
	}
	e.advise(cfg, tableID)

	if err := validate.CheckOrderEligibility(t.Status); err != nil {
		return entity.Order{}, fromValidation(err, tableID, "", "")
	}

	items, err := e.resolveItems(reqs, tableID)
	if err != nil {
		return entity.Order{}, err
	}

	ev := entity.Event{
		Kind:    entity.EventOrderPlaced,
		OrderID: e.ids.Generate(),
		TableID: tableID,
		Items:   items,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Order{}, err
	}
	return e.st.Order(ev.OrderID)
}

// AddOrderItems appends items to an open order.
func (e *Engine) AddOrderItems(ctx context.Context, orderID string, reqs []ItemRequest, opts ...OpOption) (entity.Order, error) {
	cfg := applyOpOptions(opts)

	o, err := e.st.Order(orderID)
	if err != nil {
		return entity.Order{}, notFound(entity.KindOrder, orderID, err)
	}

	unlock := e.locks.acquire(o.TableID)
	defer unlock()

	o, err = e.st.Order(orderID)
	if err != nil {
		return entity.Order{}, notFound(entity.KindOrder, orderID, err)
	}
	e.advise(cfg, o.TableID)

	if o.Status != entity.OrderOpen {
		return entity.Order{}, &Error{
			Kind:    ErrIllegalTransition,
			Message: fmt.Sprintf("order is %s, not open", o.Status),
			TableID: o.TableID,
			OrderID: orderID,
		}
	}

	items, err := e.resolveItems(reqs, o.TableID)
	if err != nil {
		return entity.Order{}, err
	}

	ev := entity.Event{
		Kind:    entity.EventOrderItemsAdded,
		OrderID: orderID,
		TableID: o.TableID,
		Items:   items,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Order{}, err
	}
	return e.st.Order(orderID)
}

// CloseOrder settles an open order.
func (e *Engine) CloseOrder(ctx context.Context, orderID string, opts ...OpOption) (entity.Order, error) {
	return e.finishOrder(ctx, orderID, entity.EventOrderClosed, opts)
}

// CancelOrder voids an open order without settling it.
func (e *Engine) CancelOrder(ctx context.Context, orderID string, opts ...OpOption) (entity.Order, error) {
	return e.finishOrder(ctx, orderID, entity.EventOrderCancelled, opts)
}

func (e *Engine) finishOrder(ctx context.Context, orderID string, kind entity.EventKind, opts []OpOption) (entity.Order, error) {
	cfg := applyOpOptions(opts)

	o, err := e.st.Order(orderID)
	if err != nil {
		return entity.Order{}, notFound(entity.KindOrder, orderID, err)
	}

	unlock := e.locks.acquire(o.TableID)
	defer unlock()

	o, err = e.st.Order(orderID)
	if err != nil {
		return entity.Order{}, notFound(entity.KindOrder, orderID, err)
	}
	e.advise(cfg, o.TableID)

	if o.Status != entity.OrderOpen {
		return entity.Order{}, &Error{
			Kind:    ErrIllegalTransition,
			Message: fmt.Sprintf("order is %s, not open", o.Status),
			TableID: o.TableID,
			OrderID: orderID,
		}
	}

	ev := entity.Event{
		Kind:    kind,
		OrderID: orderID,
		TableID: o.TableID,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Order{}, err
	}
	return e.st.Order(orderID)
}
