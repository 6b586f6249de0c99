package workflow

import (
	"context"
	"strconv"

	"github.com/roach88/mechshop/internal/store"
)

// ServiceRequest is a row of the Service_Request table. Created once at
// intake and immutable afterwards.
type ServiceRequest struct {
	RID        int
	CustomerID int
	CarVIN     string
	Date       string // YYYY-MM-DD
	Odometer   int
	Complaint  string
}

// ClosedRequest is a row of the Closed_Request table. Its existence is what
// marks the referenced service request Closed; there is no status column.
type ClosedRequest struct {
	WID        int
	RID        int
	MechanicID int
	Date       string // YYYY-MM-DD
	Comment    string
	Bill       int
}

// requestByRID returns the service request with the given rid, or nil when
// absent.
func requestByRID(ctx context.Context, q store.Querier, rid int) (*ServiceRequest, error) {
	rows, err := q.QueryRows(ctx,
		"SELECT rid, customer_id, car_vin, date, odometer, complain FROM Service_Request WHERE rid = ?",
		rid)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	reqRID, err := strconv.Atoi(r[0])
	if err != nil {
		return nil, err
	}
	customerID, err := strconv.Atoi(r[1])
	if err != nil {
		return nil, err
	}
	odometer, err := strconv.Atoi(r[4])
	if err != nil {
		return nil, err
	}
	return &ServiceRequest{
		RID:        reqRID,
		CustomerID: customerID,
		CarVIN:     r[2],
		Date:       r[3],
		Odometer:   odometer,
		Complaint:  r[5],
	}, nil
}

// maxID returns the current maximum id of the given table, for the bounds
// checks that precede close-transition lookups.
func maxID(ctx context.Context, q store.Querier, table, idColumn string) (int, error) {
	max, err := q.CurrentMax(ctx, table, idColumn)
	if err != nil {
		return 0, storageError("read current max "+table, err)
	}
	return max, nil
}
