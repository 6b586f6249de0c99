package workflow

import (
	"context"
	"fmt"

	"github.com/roach88/mechshop/internal/registry"
)

// AddCustomer interactively registers a new customer.
//
// An exact duplicate of all four identity fields is treated as operator
// error: the operator is told and re-prompted for different details.
// Adding a customer always produces a fresh id; the loop never silently
// reuses the colliding record. The retry count is bounded so a stuck
// operator session fails instead of looping forever.
func (s *Service) AddCustomer(ctx context.Context, p Prompter) (registry.Customer, error) {
	for attempt := 0; attempt < s.maxIdentityRetries; attempt++ {
		c, err := promptCustomerFields(p)
		if err != nil {
			return registry.Customer{}, err
		}

		matches, err := registry.FindCustomersExact(ctx, s.store, c)
		if err != nil {
			return registry.Customer{}, storageError("check customer identity", err)
		}
		if len(matches) > 0 {
			notify(p, "a customer with these exact details already exists; enter different details")
			continue
		}

		created, err := registry.CreateCustomer(ctx, s.store, c)
		if err != nil {
			return registry.Customer{}, mapErr("create customer", err)
		}
		s.log.Info("customer created", "id", created.ID)
		return created, nil
	}
	return registry.Customer{}, inputErrorf("customer details collided %d times", s.maxIdentityRetries)
}

// AddMechanic interactively registers a new mechanic. Same duplicate policy
// as AddCustomer, with identity = name + years of experience.
func (s *Service) AddMechanic(ctx context.Context, p Prompter) (registry.Mechanic, error) {
	for attempt := 0; attempt < s.maxIdentityRetries; attempt++ {
		m, err := promptMechanicFields(p)
		if err != nil {
			return registry.Mechanic{}, err
		}

		matches, err := registry.FindMechanicsExact(ctx, s.store, m)
		if err != nil {
			return registry.Mechanic{}, storageError("check mechanic identity", err)
		}
		if len(matches) > 0 {
			notify(p, "a mechanic with these exact details already exists; enter different details")
			continue
		}

		created, err := registry.CreateMechanic(ctx, s.store, m)
		if err != nil {
			return registry.Mechanic{}, mapErr("create mechanic", err)
		}
		s.log.Info("mechanic created", "id", created.ID)
		return created, nil
	}
	return registry.Mechanic{}, inputErrorf("mechanic details collided %d times", s.maxIdentityRetries)
}

// AddCar interactively registers a car for a customer resolved by last
// name. Car and ownership are written as one atomic unit. A VIN collision
// is a hard reject, not a retry: the operation fails and the operator must
// come back with a different VIN.
func (s *Service) AddCar(ctx context.Context, p Prompter) (registry.Ownership, error) {
	customer, err := s.resolveCustomer(ctx, p)
	if err != nil {
		return registry.Ownership{}, err
	}

	car, err := promptCarFields(p)
	if err != nil {
		return registry.Ownership{}, err
	}

	own, err := registry.CreateCarWithOwner(ctx, s.store, car, customer.ID)
	if err != nil {
		if registry.IsVINExists(err) {
			return registry.Ownership{}, inputErrorf("%v", err)
		}
		return registry.Ownership{}, mapErr("create car", err)
	}
	s.log.Info("car registered", "vin", own.CarVIN, "customer", own.CustomerID, "ownership", own.ID)
	return own, nil
}

// createCarFor registers a car inline during intake, for a customer already
// resolved.
func (s *Service) createCarFor(ctx context.Context, p Prompter, customerID int) (*registry.Car, error) {
	car, err := promptCarFields(p)
	if err != nil {
		return nil, err
	}
	own, err := registry.CreateCarWithOwner(ctx, s.store, car, customerID)
	if err != nil {
		if registry.IsVINExists(err) {
			return nil, inputErrorf("%v", err)
		}
		return nil, mapErr("create car", err)
	}
	// Return the car as stored, not as prompted: the VIN is normalized on
	// insert, and the request row written next must reference the stored one.
	car.VIN = own.CarVIN
	return &car, nil
}

func promptCustomerFields(p Prompter) (registry.Customer, error) {
	var c registry.Customer
	var err error
	if c.FName, err = p.PromptLine("Customer's first name"); err != nil {
		return c, inputErrorf("read first name: %v", err)
	}
	if c.LName, err = p.PromptLine("Customer's last name"); err != nil {
		return c, inputErrorf("read last name: %v", err)
	}
	if c.Phone, err = p.PromptLine("Customer's phone number"); err != nil {
		return c, inputErrorf("read phone: %v", err)
	}
	if c.Address, err = p.PromptLine("Customer's address"); err != nil {
		return c, inputErrorf("read address: %v", err)
	}
	return c, nil
}

func promptMechanicFields(p Prompter) (registry.Mechanic, error) {
	var m registry.Mechanic
	var err error
	if m.FName, err = p.PromptLine("Mechanic's first name"); err != nil {
		return m, inputErrorf("read first name: %v", err)
	}
	if m.LName, err = p.PromptLine("Mechanic's last name"); err != nil {
		return m, inputErrorf("read last name: %v", err)
	}
	for {
		exp, err := p.PromptInt("Years of experience")
		if err != nil {
			return m, inputErrorf("read experience: %v", err)
		}
		if exp >= 0 {
			m.Experience = exp
			return m, nil
		}
		notify(p, fmt.Sprintf("experience must be >= 0, got %d", exp))
	}
}

func promptCarFields(p Prompter) (registry.Car, error) {
	var c registry.Car
	var err error
	if c.VIN, err = p.PromptLine("VIN"); err != nil {
		return c, inputErrorf("read vin: %v", err)
	}
	if c.Make, err = p.PromptLine("Make"); err != nil {
		return c, inputErrorf("read make: %v", err)
	}
	if c.Model, err = p.PromptLine("Model"); err != nil {
		return c, inputErrorf("read model: %v", err)
	}
	if c.Year, err = p.PromptInt("Year"); err != nil {
		return c, inputErrorf("read year: %v", err)
	}
	return c, nil
}
