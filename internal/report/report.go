// Package report implements the five fixed analytical views over the
// shop's closed records. Every view is read-only and returns rows in a
// deterministic order, so running a report twice with no intervening
// writes yields identical output.
package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/mechshop/internal/store"
)

// SmallBillRow is one closed request billed under 100.
type SmallBillRow struct {
	CustomerID int
	RID        int
	Bill       int
}

// ManyCarsRow names a customer owning more than 20 cars.
type ManyCarsRow struct {
	FName string
	LName string
}

// OldCarRow is a pre-1995 car with a service request recorded under 50000
// on the odometer.
type OldCarRow struct {
	Make     string
	Model    string
	Year     int
	Odometer int
}

// TopCarRow is a (make, model) group ranked by service request count.
type TopCarRow struct {
	Make     string
	Model    string
	Requests int
}

// TotalBillRow is a customer ranked by their summed closed-request bills.
type TotalBillRow struct {
	FName string
	LName string
	Total int
}

// RankRangeError reports a top-k request for more groups than exist. The
// ranking fails explicitly rather than returning a truncated result.
type RankRangeError struct {
	K      int
	Groups int
}

func (e *RankRangeError) Error() string {
	return fmt.Sprintf("requested top %d but only %d (make, model) groups exist", e.K, e.Groups)
}

// IsRankRange reports whether err is (or wraps) a RankRangeError.
func IsRankRange(err error) bool {
	var re *RankRangeError
	return errors.As(err, &re)
}

// SmallBills lists (customer id, rid, bill) for every closed request billed
// under 100, in work-order (wid) order.
func SmallBills(ctx context.Context, q store.Querier) ([]SmallBillRow, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT sr.customer_id, cr.rid, cr.bill
		 FROM Closed_Request cr JOIN Service_Request sr ON sr.rid = cr.rid
		 WHERE cr.bill < 100
		 ORDER BY cr.wid`)
	if err != nil {
		return nil, err
	}
	out := make([]SmallBillRow, 0, len(rows))
	for _, r := range rows {
		customerID, rid, bill, err := atoi3(r[0], r[1], r[2])
		if err != nil {
			return nil, err
		}
		out = append(out, SmallBillRow{CustomerID: customerID, RID: rid, Bill: bill})
	}
	return out, nil
}

// CustomersWithManyCars returns the distinct names of customers owning more
// than 20 cars, ordered by last then first name.
func CustomersWithManyCars(ctx context.Context, q store.Querier) ([]ManyCarsRow, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT DISTINCT c.fname, c.lname
		 FROM Customer c
		 WHERE c.id IN (
		     SELECT customer_id FROM Owns
		     GROUP BY customer_id HAVING COUNT(car_vin) > 20
		 )
		 ORDER BY c.lname, c.fname`)
	if err != nil {
		return nil, err
	}
	out := make([]ManyCarsRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ManyCarsRow{FName: r[0], LName: r[1]})
	}
	return out, nil
}

// OldLowMileageCars returns distinct (make, model, year, odometer) for cars
// manufactured before 1995 with a service request recorded at odometer
// under 50000.
func OldLowMileageCars(ctx context.Context, q store.Querier) ([]OldCarRow, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT DISTINCT c.make, c.model, c.year, sr.odometer
		 FROM Car c JOIN Service_Request sr ON sr.car_vin = c.vin
		 WHERE c.year < 1995 AND sr.odometer < 50000
		 ORDER BY c.make, c.model, c.year, sr.odometer`)
	if err != nil {
		return nil, err
	}
	out := make([]OldCarRow, 0, len(rows))
	for _, r := range rows {
		year, err := strconv.Atoi(r[2])
		if err != nil {
			return nil, err
		}
		odometer, err := strconv.Atoi(r[3])
		if err != nil {
			return nil, err
		}
		out = append(out, OldCarRow{Make: r[0], Model: r[1], Year: year, Odometer: odometer})
	}
	return out, nil
}

// TopServicedCars ranks (make, model) groups by service request count,
// descending, ties broken by make then model, and returns exactly the
// first k rows. k must be positive; asking for more groups than exist is a
// RankRangeError, never a short result.
func TopServicedCars(ctx context.Context, q store.Querier, k int) ([]TopCarRow, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be a positive integer, got %d", k)
	}
	rows, err := q.QueryRows(ctx,
		`SELECT c.make, c.model, COUNT(*) AS requests
		 FROM Service_Request sr JOIN Car c ON c.vin = sr.car_vin
		 GROUP BY c.make, c.model
		 ORDER BY requests DESC, c.make, c.model`)
	if err != nil {
		return nil, err
	}
	if k > len(rows) {
		return nil, &RankRangeError{K: k, Groups: len(rows)}
	}
	out := make([]TopCarRow, 0, k)
	for _, r := range rows[:k] {
		n, err := strconv.Atoi(r[2])
		if err != nil {
			return nil, err
		}
		out = append(out, TopCarRow{Make: r[0], Model: r[1], Requests: n})
	}
	return out, nil
}

// CustomersByTotalBill ranks customers by the sum of bills over all their
// closed requests, descending. Ties break by customer id ascending - the
// storage order the original relied on was unspecified, so the id is the
// documented deterministic secondary key.
func CustomersByTotalBill(ctx context.Context, q store.Querier) ([]TotalBillRow, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT c.fname, c.lname, SUM(cr.bill) AS total
		 FROM Customer c
		 JOIN Service_Request sr ON sr.customer_id = c.id
		 JOIN Closed_Request cr ON cr.rid = sr.rid
		 GROUP BY c.id
		 ORDER BY total DESC, c.id ASC`)
	if err != nil {
		return nil, err
	}
	out := make([]TotalBillRow, 0, len(rows))
	for _, r := range rows {
		total, err := strconv.Atoi(r[2])
		if err != nil {
			return nil, err
		}
		out = append(out, TotalBillRow{FName: r[0], LName: r[1], Total: total})
	}
	return out, nil
}

func atoi3(a, b, c string) (int, int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}
