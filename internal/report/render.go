package report

import (
	"strconv"
	"strings"
	"text/tabwriter"
)

// Table is a rendered-ready view of a report result: a header plus rows of
// string cells. The CLI displays tables; golden tests snapshot them.
type Table struct {
	Header []string
	Rows   [][]string
}

// Render formats the table as aligned text, one line per row, with a
// trailing "total row(s): N" line.
func (t Table) Render() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	line := func(cells []string) {
		w.Write([]byte(strings.Join(cells, "\t") + "\n"))
	}
	line(t.Header)
	for _, row := range t.Rows {
		line(row)
	}
	w.Flush()
	b.WriteString("total row(s): " + strconv.Itoa(len(t.Rows)) + "\n")
	return b.String()
}

// SmallBillsTable renders SmallBills rows.
func SmallBillsTable(rows []SmallBillRow) Table {
	t := Table{Header: []string{"customer_id", "rid", "bill"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.CustomerID), strconv.Itoa(r.RID), strconv.Itoa(r.Bill),
		})
	}
	return t
}

// ManyCarsTable renders CustomersWithManyCars rows.
func ManyCarsTable(rows []ManyCarsRow) Table {
	t := Table{Header: []string{"fname", "lname"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.FName, r.LName})
	}
	return t
}

// OldCarsTable renders OldLowMileageCars rows.
func OldCarsTable(rows []OldCarRow) Table {
	t := Table{Header: []string{"make", "model", "year", "odometer"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Make, r.Model, strconv.Itoa(r.Year), strconv.Itoa(r.Odometer),
		})
	}
	return t
}

// TopCarsTable renders TopServicedCars rows.
func TopCarsTable(rows []TopCarRow) Table {
	t := Table{Header: []string{"make", "model", "requests"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Make, r.Model, strconv.Itoa(r.Requests)})
	}
	return t
}

// TotalBillsTable renders CustomersByTotalBill rows.
func TotalBillsTable(rows []TotalBillRow) Table {
	t := Table{Header: []string{"fname", "lname", "total"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.FName, r.LName, strconv.Itoa(r.Total)})
	}
	return t
}
