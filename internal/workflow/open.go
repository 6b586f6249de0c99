package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/mechshop/internal/registry"
	"github.com/roach88/mechshop/internal/store"
)

// Open runs the intake transition: resolve customer and car, capture
// odometer and complaint, then persist the new service request dated today.
// Returns the allocated rid.
//
// Nothing is written until the final persist, so aborting at any earlier
// step (declined creation, bad disambiguation pick) leaves no side effects.
// The rid is allocated inside the same transaction as the insert it keys.
func (s *Service) Open(ctx context.Context, p Prompter) (int, error) {
	token := s.tokens.NewToken()
	log := s.log.With("op", "open_request", "token", token)

	customer, err := s.resolveCustomer(ctx, p)
	if err != nil {
		return 0, err
	}
	log.Debug("customer resolved", "customer", customer.ID)

	car, err := s.resolveCar(ctx, p, customer)
	if err != nil {
		return 0, err
	}
	log.Debug("car resolved", "vin", car.VIN)

	odometer, err := s.promptOdometer(p, log)
	if err != nil {
		return 0, err
	}

	complaint, err := p.PromptLine("Complaint")
	if err != nil {
		return 0, inputErrorf("read complaint: %v", err)
	}

	var rid int
	err = s.store.WithTx(ctx, func(q store.Querier) error {
		id, err := registry.NextID(ctx, q, registry.TableServiceRequest, "rid")
		if err != nil {
			return err
		}
		rid = id
		return q.ExecUpdate(ctx,
			"INSERT INTO Service_Request (rid, customer_id, car_vin, date, odometer, complain) VALUES (?, ?, ?, ?, ?, ?)",
			rid, customer.ID, car.VIN, s.today(), odometer, complaint)
	})
	if err != nil {
		return 0, mapErr("persist service request", err)
	}

	log.Info("service request opened", "rid", rid, "customer", customer.ID, "vin", car.VIN)
	notify(p, fmt.Sprintf("service request %d opened", rid))
	return rid, nil
}

// promptOdometer captures the odometer reading. A reading must be a
// positive integer; what happens on a non-positive value depends on the
// configured policy. Lenient reports the problem and keeps the value as
// entered - the request is still recorded, odometer and all. Strict
// re-prompts until the reading is positive.
func (s *Service) promptOdometer(p Prompter, log *slog.Logger) (int, error) {
	for {
		v, err := p.PromptInt("Odometer reading")
		if err != nil {
			return 0, inputErrorf("read odometer: %v", err)
		}
		if v > 0 {
			return v, nil
		}
		if s.policy == PolicyLenient {
			notify(p, fmt.Sprintf("odometer reading %d is not positive; recording as entered", v))
			log.Warn("non-positive odometer accepted", "odometer", v, "policy", s.policy)
			return v, nil
		}
		notify(p, fmt.Sprintf("odometer reading must be positive, got %d", v))
	}
}
