// Package registry implements create/find operations over the shop's four
// entity classes (customers, mechanics, cars, ownership) and the monotonic
// identifier allocator they share.
//
// Duplicate policy differs by entity class:
//   - Customer/Mechanic: identity is the full field set; an exact duplicate
//     is user error and the interactive layer re-prompts before creating.
//     Creation itself always produces a fresh id.
//   - Car: the VIN is the natural key; a VIN collision is a hard reject.
//
// Identity strings are NFC-normalized before both matching and insertion so
// "exact match" does not depend on which Unicode encoding of a name the
// operator happened to type.
package registry

import "golang.org/x/text/unicode/norm"

// Customer is a row of the Customer table.
type Customer struct {
	ID      int
	FName   string
	LName   string
	Phone   string
	Address string
}

// Mechanic is a row of the Mechanic table.
type Mechanic struct {
	ID         int
	FName      string
	LName      string
	Experience int
}

// Car is a row of the Car table. The VIN is externally supplied, never
// generated, and never reused once assigned.
type Car struct {
	VIN   string
	Make  string
	Model string
	Year  int
}

// Ownership links a customer to a car they own.
type Ownership struct {
	ID         int
	CustomerID int
	CarVIN     string
}

// Table and id-column names of the external schema contract.
const (
	TableCustomer       = "Customer"
	TableMechanic       = "Mechanic"
	TableCar            = "Car"
	TableOwns           = "Owns"
	TableServiceRequest = "Service_Request"
	TableClosedRequest  = "Closed_Request"
)

func nfc(s string) string {
	return norm.NFC.String(s)
}
