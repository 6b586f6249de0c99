package registry

import (
	"context"
	"strconv"

	"github.com/roach88/mechshop/internal/store"
)

// FindCustomersExact returns every customer whose identity fields (first
// name, last name, phone, address) all equal the given values. Used by the
// duplicate check before creation; the id field of c is ignored.
func FindCustomersExact(ctx context.Context, q store.Querier, c Customer) ([]Customer, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT id, fname, lname, phone, address FROM Customer
		 WHERE fname = ? AND lname = ? AND phone = ? AND address = ?
		 ORDER BY id`,
		nfc(c.FName), nfc(c.LName), nfc(c.Phone), nfc(c.Address))
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

// FindCustomersByLastName returns customers matching the last name exactly
// (case-sensitive), in id order. The workflow uses the result cardinality to
// branch between create, direct use, and operator disambiguation.
func FindCustomersByLastName(ctx context.Context, q store.Querier, lname string) ([]Customer, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT id, fname, lname, phone, address FROM Customer
		 WHERE lname = ? ORDER BY id`,
		nfc(lname))
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

// CustomerByID returns the customer with the given id, or nil when absent.
func CustomerByID(ctx context.Context, q store.Querier, id int) (*Customer, error) {
	rows, err := q.QueryRows(ctx,
		"SELECT id, fname, lname, phone, address FROM Customer WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	customers, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}
	return &customers[0], nil
}

// CreateCustomer allocates a fresh id and persists the customer. Allocation
// and insert run in one transaction. The caller is responsible for the
// duplicate-identity check; creation never reuses an existing record.
func CreateCustomer(ctx context.Context, s *store.Store, c Customer) (Customer, error) {
	created := c
	created.FName = nfc(c.FName)
	created.LName = nfc(c.LName)
	created.Phone = nfc(c.Phone)
	created.Address = nfc(c.Address)

	err := s.WithTx(ctx, func(q store.Querier) error {
		id, err := NextID(ctx, q, TableCustomer, "id")
		if err != nil {
			return err
		}
		created.ID = id
		return q.ExecUpdate(ctx,
			"INSERT INTO Customer (id, fname, lname, phone, address) VALUES (?, ?, ?, ?, ?)",
			created.ID, created.FName, created.LName, created.Phone, created.Address)
	})
	if err != nil {
		return Customer{}, err
	}
	return created, nil
}

func scanCustomers(rows [][]string) ([]Customer, error) {
	out := make([]Customer, 0, len(rows))
	for _, r := range rows {
		id, err := strconv.Atoi(r[0])
		if err != nil {
			return nil, err
		}
		out = append(out, Customer{
			ID:      id,
			FName:   r[1],
			LName:   r[2],
			Phone:   r[3],
			Address: r[4],
		})
	}
	return out, nil
}
