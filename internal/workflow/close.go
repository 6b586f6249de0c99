package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/mechshop/internal/registry"
	"github.com/roach88/mechshop/internal/store"
)

// Close runs the resolution transition: bounds-check and look up the target
// request and the mechanic, capture comment and bill, then persist the
// closed-request record dated today. Returns the allocated wid.
//
// Writing the Closed_Request row is the sole mechanism that marks a request
// Closed. Close does not check whether the rid already has a closure;
// keeping "at most one closure per request" is the caller's rule, and the
// scenario suite flags a double close as a modeling violation.
func (s *Service) Close(ctx context.Context, p Prompter) (int, error) {
	token := s.tokens.NewToken()
	log := s.log.With("op", "close_request", "token", token)

	req, err := s.resolveRequest(ctx, p)
	if err != nil {
		return 0, err
	}
	log.Debug("request resolved", "rid", req.RID)

	mech, err := s.resolveMechanic(ctx, p)
	if err != nil {
		return 0, err
	}
	log.Debug("mechanic resolved", "mechanic", mech.ID)

	comment, err := p.PromptLine("Resolution comment")
	if err != nil {
		return 0, inputErrorf("read comment: %v", err)
	}

	bill, err := s.promptBill(p, log)
	if err != nil {
		return 0, err
	}

	var wid int
	err = s.store.WithTx(ctx, func(q store.Querier) error {
		id, err := registry.NextID(ctx, q, registry.TableClosedRequest, "wid")
		if err != nil {
			return err
		}
		wid = id
		return q.ExecUpdate(ctx,
			"INSERT INTO Closed_Request (wid, rid, mid, date, comment, bill) VALUES (?, ?, ?, ?, ?, ?)",
			wid, req.RID, mech.ID, s.today(), comment, bill)
	})
	if err != nil {
		return 0, mapErr("persist closed request", err)
	}

	log.Info("service request closed", "wid", wid, "rid", req.RID, "mechanic", mech.ID, "bill", bill)
	notify(p, fmt.Sprintf("service request %d closed as work order %d", req.RID, wid))
	return wid, nil
}

// resolveRequest prompts for a rid, bounds-checks it against the current
// maximum, and re-confirms existence by lookup. An out-of-range rid aborts
// with no side effects.
func (s *Service) resolveRequest(ctx context.Context, p Prompter) (*ServiceRequest, error) {
	maxRid, err := maxID(ctx, s.store, registry.TableServiceRequest, "rid")
	if err != nil {
		return nil, err
	}

	rid, err := p.PromptInt("Service request id")
	if err != nil {
		return nil, inputErrorf("read service request id: %v", err)
	}
	if rid < 1 || rid > maxRid {
		return nil, inputErrorf("service request id %d out of range [1-%d]", rid, maxRid)
	}

	req, err := requestByRID(ctx, s.store, rid)
	if err != nil {
		return nil, storageError("look up service request", err)
	}
	if req == nil {
		return nil, lookupErrorf("service request %d not found", rid)
	}

	p.Display(
		[]string{"rid", "customer_id", "car_vin", "date", "odometer", "complain"},
		[][]string{{
			strconv.Itoa(req.RID), strconv.Itoa(req.CustomerID), req.CarVIN,
			req.Date, strconv.Itoa(req.Odometer), req.Complaint,
		}},
	)
	return req, nil
}

// resolveMechanic prompts for a mechanic id with the same bounds-then-lookup
// sequence as resolveRequest.
func (s *Service) resolveMechanic(ctx context.Context, p Prompter) (*registry.Mechanic, error) {
	maxMid, err := maxID(ctx, s.store, registry.TableMechanic, "id")
	if err != nil {
		return nil, err
	}

	mid, err := p.PromptInt("Mechanic id")
	if err != nil {
		return nil, inputErrorf("read mechanic id: %v", err)
	}
	if mid < 1 || mid > maxMid {
		return nil, inputErrorf("mechanic id %d out of range [1-%d]", mid, maxMid)
	}

	mech, err := registry.MechanicByID(ctx, s.store, mid)
	if err != nil {
		return nil, storageError("look up mechanic", err)
	}
	if mech == nil {
		return nil, lookupErrorf("mechanic %d not found", mid)
	}

	p.Display(
		[]string{"id", "fname", "lname", "experience"},
		[][]string{{
			strconv.Itoa(mech.ID), mech.FName, mech.LName, strconv.Itoa(mech.Experience),
		}},
	)
	return mech, nil
}

// promptBill captures the bill amount. Non-negative is the rule; the
// lenient policy reports a negative amount and records it as entered, the
// strict policy re-prompts.
func (s *Service) promptBill(p Prompter, log *slog.Logger) (int, error) {
	for {
		v, err := p.PromptInt("Bill amount")
		if err != nil {
			return 0, inputErrorf("read bill: %v", err)
		}
		if v >= 0 {
			return v, nil
		}
		if s.policy == PolicyLenient {
			notify(p, fmt.Sprintf("bill amount %d is negative; recording as entered", v))
			log.Warn("negative bill accepted", "bill", v, "policy", s.policy)
			return v, nil
		}
		notify(p, fmt.Sprintf("bill amount must be non-negative, got %d", v))
	}
}
