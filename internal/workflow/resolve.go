package workflow

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/mechshop/internal/registry"
	"github.com/roach88/mechshop/internal/store"
)

// resolveCustomer turns a last-name prompt into exactly one customer.
//
// Cardinality of the match set decides the path:
//   - 0: offer to create the customer; declining aborts with a lookup error
//     and no side effects.
//   - 1: used directly.
//   - 2+: the candidate list is displayed in query order and the operator
//     picks by 1-based position. An out-of-range pick is fatal for this
//     invocation, not retried.
func (s *Service) resolveCustomer(ctx context.Context, p Prompter) (*registry.Customer, error) {
	lname, err := p.PromptLine("Customer's last name")
	if err != nil {
		return nil, inputErrorf("read last name: %v", err)
	}

	matches, err := registry.FindCustomersByLastName(ctx, s.store, lname)
	if err != nil {
		return nil, storageError("find customers by last name", err)
	}

	switch len(matches) {
	case 0:
		answer, err := p.PromptLine(fmt.Sprintf("No customer with last name %q. Create one? (y/n)", lname))
		if err != nil {
			return nil, inputErrorf("read answer: %v", err)
		}
		if answer != "y" && answer != "yes" {
			return nil, lookupErrorf("no customer with last name %q", lname)
		}
		created, err := s.AddCustomer(ctx, p)
		if err != nil {
			return nil, err
		}
		return &created, nil
	case 1:
		return &matches[0], nil
	default:
		rows := make([][]string, len(matches))
		for i, c := range matches {
			rows[i] = []string{
				strconv.Itoa(i + 1), strconv.Itoa(c.ID), c.FName, c.LName, c.Phone, c.Address,
			}
		}
		p.Display([]string{"#", "id", "fname", "lname", "phone", "address"}, rows)

		pick, err := pickIndex(p, "Select customer", len(matches))
		if err != nil {
			return nil, err
		}
		return &matches[pick], nil
	}
}

// resolveCar turns the customer's owned-car list into exactly one car,
// creating car and ownership inline when the customer has none on file.
func (s *Service) resolveCar(ctx context.Context, p Prompter, customer *registry.Customer) (*registry.Car, error) {
	cars, err := registry.CarsOwnedBy(ctx, s.store, customer.ID)
	if err != nil {
		return nil, storageError("find owned cars", err)
	}

	if len(cars) == 0 {
		notify(p, fmt.Sprintf("no cars on file for customer %d; registering one", customer.ID))
		car, err := s.createCarFor(ctx, p, customer.ID)
		if err != nil {
			return nil, err
		}
		return car, nil
	}

	rows := make([][]string, len(cars))
	for i, c := range cars {
		rows[i] = []string{strconv.Itoa(i + 1), c.VIN, c.Make, c.Model, strconv.Itoa(c.Year)}
	}
	p.Display([]string{"#", "vin", "make", "model", "year"}, rows)

	pick, err := pickIndex(p, "Select car", len(cars))
	if err != nil {
		return nil, err
	}
	return &cars[pick], nil
}

// pickIndex prompts for a 1-based position in [1, n] and returns the
// zero-based index. Out of range is a fatal input error, by design.
func pickIndex(p Prompter, label string, n int) (int, error) {
	pick, err := p.PromptInt(fmt.Sprintf("%s [1-%d]", label, n))
	if err != nil {
		return 0, inputErrorf("read selection: %v", err)
	}
	if pick < 1 || pick > n {
		return 0, inputErrorf("selection %d out of range [1-%d]", pick, n)
	}
	return pick - 1, nil
}

// mapErr lifts registry/store errors into the workflow taxonomy. Errors
// already carrying a workflow code pass through unchanged.
func mapErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	if CodeOf(err) != "" {
		return err
	}
	if registry.IsAllocationError(err) {
		return allocationError(err)
	}
	if store.IsStorageError(err) {
		return storageError(msg, err)
	}
	return err
}
