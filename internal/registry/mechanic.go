package registry

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/mechshop/internal/store"
)

// FindMechanicsExact returns every mechanic whose identity fields (name and
// years of experience) all equal the given values. The id field of m is
// ignored.
func FindMechanicsExact(ctx context.Context, q store.Querier, m Mechanic) ([]Mechanic, error) {
	rows, err := q.QueryRows(ctx,
		`SELECT id, fname, lname, experience FROM Mechanic
		 WHERE fname = ? AND lname = ? AND experience = ?
		 ORDER BY id`,
		nfc(m.FName), nfc(m.LName), m.Experience)
	if err != nil {
		return nil, err
	}
	return scanMechanics(rows)
}

// MechanicByID returns the mechanic with the given id, or nil when absent.
func MechanicByID(ctx context.Context, q store.Querier, id int) (*Mechanic, error) {
	rows, err := q.QueryRows(ctx,
		"SELECT id, fname, lname, experience FROM Mechanic WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	mechanics, err := scanMechanics(rows)
	if err != nil {
		return nil, err
	}
	return &mechanics[0], nil
}

// CreateMechanic allocates a fresh id and persists the mechanic. Years of
// experience must be non-negative.
func CreateMechanic(ctx context.Context, s *store.Store, m Mechanic) (Mechanic, error) {
	if m.Experience < 0 {
		return Mechanic{}, fmt.Errorf("experience must be >= 0, got %d", m.Experience)
	}

	created := m
	created.FName = nfc(m.FName)
	created.LName = nfc(m.LName)

	err := s.WithTx(ctx, func(q store.Querier) error {
		id, err := NextID(ctx, q, TableMechanic, "id")
		if err != nil {
			return err
		}
		created.ID = id
		return q.ExecUpdate(ctx,
			"INSERT INTO Mechanic (id, fname, lname, experience) VALUES (?, ?, ?, ?)",
			created.ID, created.FName, created.LName, created.Experience)
	})
	if err != nil {
		return Mechanic{}, err
	}
	return created, nil
}

func scanMechanics(rows [][]string) ([]Mechanic, error) {
	out := make([]Mechanic, 0, len(rows))
	for _, r := range rows {
		id, err := strconv.Atoi(r[0])
		if err != nil {
			return nil, err
		}
		exp, err := strconv.Atoi(r[3])
		if err != nil {
			return nil, err
		}
		out = append(out, Mechanic{
			ID:         id,
			FName:      r[1],
			LName:      r[2],
			Experience: exp,
		})
	}
	return out, nil
}
