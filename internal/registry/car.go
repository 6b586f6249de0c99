package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/mechshop/internal/store"
)

// VINExistsError reports an attempt to register a car under a VIN already in
// the registry. VIN collisions are a hard reject, not a retryable duplicate:
// the operator must supply a different VIN.
type VINExistsError struct {
	VIN string
}

func (e *VINExistsError) Error() string {
	return fmt.Sprintf("car with VIN %q already registered", e.VIN)
}

// IsVINExists reports whether err is (or wraps) a VINExistsError.
func IsVINExists(err error) bool {
	var ve *VINExistsError
	return errors.As(err, &ve)
}

// CarByVIN returns the car with the given VIN, or nil when absent.
func CarByVIN(ctx context.Context, q store.Querier, vin string) (*Car, error) {
	rows, err := q.QueryRows(ctx,
		"SELECT vin, make, model, year FROM Car WHERE vin = ?", nfc(vin))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cars, err := scanCars(rows)
	if err != nil {
		return nil, err
	}
	return &cars[0], nil
}

// CarsOwnedBy returns the cars linked to the customer through Owns, in
// ownership order. The workflow presents this list for disambiguation.
func CarsOwnedBy(ctx context.Context, q store.Querier, customerID int) ([]Car, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT c.vin, c.make, c.model, c.year
		 FROM Car c JOIN Owns o ON o.car_vin = c.vin
		 WHERE o.customer_id = ?
		 ORDER BY o.ownership_id`,
		customerID)
	if err != nil {
		return nil, err
	}
	return scanCars(rows)
}

// CreateCarWithOwner registers a car and its ownership link as one atomic
// unit: VIN uniqueness check, car insert, ownership-id allocation, and Owns
// insert all commit together or not at all. A partial failure can never
// leave an ownerless car behind.
func CreateCarWithOwner(ctx context.Context, s *store.Store, car Car, customerID int) (Ownership, error) {
	created := Ownership{CustomerID: customerID, CarVIN: nfc(car.VIN)}

	err := s.WithTx(ctx, func(q store.Querier) error {
		existing, err := q.QueryRows(ctx, "SELECT vin FROM Car WHERE vin = ?", created.CarVIN)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &VINExistsError{VIN: created.CarVIN}
		}

		if err := q.ExecUpdate(ctx,
			"INSERT INTO Car (vin, make, model, year) VALUES (?, ?, ?, ?)",
			created.CarVIN, nfc(car.Make), nfc(car.Model), car.Year); err != nil {
			return err
		}

		id, err := NextID(ctx, q, TableOwns, "ownership_id")
		if err != nil {
			return err
		}
		created.ID = id
		return q.ExecUpdate(ctx,
			"INSERT INTO Owns (ownership_id, customer_id, car_vin) VALUES (?, ?, ?)",
			created.ID, created.CustomerID, created.CarVIN)
	})
	if err != nil {
		return Ownership{}, err
	}
	return created, nil
}

func scanCars(rows [][]string) ([]Car, error) {
	out := make([]Car, 0, len(rows))
	for _, r := range rows {
		year, err := strconv.Atoi(r[3])
		if err != nil {
			return nil, err
		}
		out = append(out, Car{
			VIN:   r[0],
			Make:  r[1],
			Model: r[2],
			Year:  year,
		})
	}
	return out, nil
}
