package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mechshop/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNextID_EmptyTable(t *testing.T) {
	s := openTestStore(t)

	id, err := NextID(context.Background(), s, TableCustomer, "id")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestNextID_MaxPlusOne(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// After N creations with ids 1..N in use, the next id is N+1.
	for i := 1; i <= 4; i++ {
		_, err := CreateCustomer(ctx, s, Customer{
			FName: "C", LName: "L", Phone: "555", Address: "A",
		})
		require.NoError(t, err)
	}

	id, err := NextID(ctx, s, TableCustomer, "id")
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestCreateCustomer_MonotonicIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c1, err := CreateCustomer(ctx, s, Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "1 Oak St"})
	require.NoError(t, err)
	c2, err := CreateCustomer(ctx, s, Customer{FName: "Bob", LName: "Ng", Phone: "555-0101", Address: "2 Elm St"})
	require.NoError(t, err)

	assert.Equal(t, 1, c1.ID)
	assert.Equal(t, 2, c2.ID)
}

func TestCreateCustomer_DuplicateIdentityGetsFreshID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "1 Oak St"}
	c1, err := CreateCustomer(ctx, s, c)
	require.NoError(t, err)

	// Creation itself never dedups; the interactive layer owns the
	// duplicate check. A second create with identical fields is a new row.
	c2, err := CreateCustomer(ctx, s, c)
	require.NoError(t, err)
	assert.Equal(t, c1.ID+1, c2.ID)

	matches, err := FindCustomersExact(ctx, s, c)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFindCustomersExact_NoMatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := CreateCustomer(ctx, s, Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "1 Oak St"})
	require.NoError(t, err)

	// Any single differing identity field means no match.
	matches, err := FindCustomersExact(ctx, s, Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "2 Elm St"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindCustomersByLastName_CaseSensitive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := CreateCustomer(ctx, s, Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "1 Oak St"})
	require.NoError(t, err)

	matches, err := FindCustomersByLastName(ctx, s, "lee")
	require.NoError(t, err)
	assert.Empty(t, matches, "last-name match is case-sensitive")

	matches, err = FindCustomersByLastName(ctx, s, "Lee")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestIdentityFields_NFCNormalized(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// "é" precomposed (U+00E9) vs decomposed (e + U+0301). Both normalize
	// to the same NFC form, so they are the same identity.
	_, err := CreateCustomer(ctx, s, Customer{FName: "Ren\u00e9", LName: "Lee", Phone: "555", Address: "A"})
	require.NoError(t, err)

	matches, err := FindCustomersExact(ctx, s, Customer{FName: "Rene\u0301", LName: "Lee", Phone: "555", Address: "A"})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCreateMechanic_RejectsNegativeExperience(t *testing.T) {
	s := openTestStore(t)

	_, err := CreateMechanic(context.Background(), s, Mechanic{FName: "Max", LName: "Wrench", Experience: -1})
	assert.Error(t, err)
}

func TestCreateMechanic_And_FindExact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m, err := CreateMechanic(ctx, s, Mechanic{FName: "Max", LName: "Wrench", Experience: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)

	matches, err := FindMechanicsExact(ctx, s, Mechanic{FName: "Max", LName: "Wrench", Experience: 7})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, m.ID, matches[0].ID)

	// Same name, different experience: distinct identity.
	matches, err = FindMechanicsExact(ctx, s, Mechanic{FName: "Max", LName: "Wrench", Experience: 8})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCreateCarWithOwner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := CreateCustomer(ctx, s, Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "1 Oak St"})
	require.NoError(t, err)

	own, err := CreateCarWithOwner(ctx, s, Car{VIN: "V1", Make: "Honda", Model: "Civic", Year: 1998}, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, own.ID)
	assert.Equal(t, c.ID, own.CustomerID)
	assert.Equal(t, "V1", own.CarVIN)

	cars, err := CarsOwnedBy(ctx, s, c.ID)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Honda", cars[0].Make)
}

func TestCreateCarWithOwner_VINCollisionRejectedAtomically(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c1, err := CreateCustomer(ctx, s, Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "1 Oak St"})
	require.NoError(t, err)
	c2, err := CreateCustomer(ctx, s, Customer{FName: "Bob", LName: "Ng", Phone: "555-0101", Address: "2 Elm St"})
	require.NoError(t, err)

	_, err = CreateCarWithOwner(ctx, s, Car{VIN: "V1", Make: "Honda", Model: "Civic", Year: 1998}, c1.ID)
	require.NoError(t, err)

	_, err = CreateCarWithOwner(ctx, s, Car{VIN: "V1", Make: "Ford", Model: "Focus", Year: 2001}, c2.ID)
	require.Error(t, err)
	assert.True(t, IsVINExists(err), "want VINExistsError, got %v", err)

	// The reject must happen before any ownership write: no second Owns row
	// may reference the already-owned vin.
	rows, err := s.QueryRows(ctx, "SELECT ownership_id FROM Owns WHERE car_vin = ?", "V1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCarsOwnedBy_OwnershipOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := CreateCustomer(ctx, s, Customer{FName: "Ann", LName: "Lee", Phone: "555-0100", Address: "1 Oak St"})
	require.NoError(t, err)

	for _, vin := range []string{"V3", "V1", "V2"} {
		_, err := CreateCarWithOwner(ctx, s, Car{VIN: vin, Make: "M", Model: "X", Year: 2000}, c.ID)
		require.NoError(t, err)
	}

	cars, err := CarsOwnedBy(ctx, s, c.ID)
	require.NoError(t, err)
	require.Len(t, cars, 3)
	// Registration order, not VIN order.
	assert.Equal(t, "V3", cars[0].VIN)
	assert.Equal(t, "V1", cars[1].VIN)
	assert.Equal(t, "V2", cars[2].VIN)
}

func TestMechanicByID_Absent(t *testing.T) {
	s := openTestStore(t)

	m, err := MechanicByID(context.Background(), s, 42)
	require.NoError(t, err)
	assert.Nil(t, m)
}
