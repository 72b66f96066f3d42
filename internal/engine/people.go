package engine

import (
	"context"
	"fmt"

	"github.com/maitred-run/maitred/internal/entity"
)

// RegisterCustomer creates a customer record.
func (e *Engine) RegisterCustomer(ctx context.Context, name, phone string) (entity.Customer, error) {
	if name == "" {
		return entity.Customer{}, fmt.Errorf("customer name is required")
	}

	ev := entity.Event{
		Kind:       entity.EventCustomerRegistered,
		CustomerID: e.ids.Generate(),
		Name:       name,
		Phone:      phone,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Customer{}, err
	}
	return e.st.Customer(ev.CustomerID)
}

// RegisterStaff creates a staff record with an advisory table
// assignment. Every assigned table must exist.
func (e *Engine) RegisterStaff(ctx context.Context, name string, assignedTables []string) (entity.Staff, error) {
	if name == "" {
		return entity.Staff{}, fmt.Errorf("staff name is required")
	}
	for _, tableID := range assignedTables {
		if _, err := e.st.Table(tableID); err != nil {
			return entity.Staff{}, notFound(entity.KindTable, tableID, err)
		}
	}

	ev := entity.Event{
		Kind:           entity.EventStaffRegistered,
		StaffID:        e.ids.Generate(),
		Name:           name,
		AssignedTables: assignedTables,
	}
	if err := e.commit(ctx, ev); err != nil {
		return entity.Staff{}, err
	}
	return e.st.Staff(ev.StaffID)
}
