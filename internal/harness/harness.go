// Package harness runs YAML-scripted end-to-end scenarios against the
// workflow service.
//
// Each scenario gets a fresh in-memory database, a fixed clock, and a fixed
// correlation token, so a scenario's outcome is fully determined by its
// script. Steps drive the same Service methods the CLI calls; checks then
// read the database back through the report queries or directly by table.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/mechshop/internal/report"
	"github.com/roach88/mechshop/internal/store"
	"github.com/roach88/mechshop/internal/workflow"
)

// Report names accepted in Check.Report. These match the CLI's report
// command names.
const (
	ReportSmallBills = "small-bills"
	ReportManyCars   = "many-cars"
	ReportOldCars    = "old-cars"
	ReportTopCars    = "top-cars"
	ReportTotalBills = "total-bills"
)

// fixedNow is the date stamped on every record a scenario writes.
var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// Result is the outcome of one scenario run. A scenario passes when no step
// or check recorded a failure.
type Result struct {
	Scenario string
	Failures []string
}

// Passed reports whether the scenario ran without failures.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

func (r *Result) failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Run executes a scenario and returns its result. A non-nil error means the
// harness itself could not run the scenario; step and check mismatches are
// reported through the Result instead.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	policy := workflow.PolicyLenient
	if scenario.Policy != "" {
		policy = workflow.ValidationPolicy(scenario.Policy)
	}

	svc := workflow.New(st, workflow.Config{
		Policy: policy,
		Now:    func() time.Time { return fixedNow },
		Tokens: workflow.FixedTokenGenerator{Token: scenario.Name},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	result := &Result{Scenario: scenario.Name}

	for i, step := range scenario.Steps {
		p := &ScriptPrompter{Inputs: step.Inputs}
		err := runStep(ctx, svc, p, step.Op)
		code := string(workflow.CodeOf(err))

		switch {
		case step.ExpectError == "" && err != nil:
			result.failf("step %d (%s): unexpected error: %v", i+1, step.Op, err)
		case step.ExpectError != "" && err == nil:
			result.failf("step %d (%s): expected %s, operation succeeded", i+1, step.Op, step.ExpectError)
		case step.ExpectError != "" && code != step.ExpectError:
			result.failf("step %d (%s): expected %s, got %v", i+1, step.Op, step.ExpectError, err)
		}
	}

	for i, check := range scenario.Checks {
		if err := runCheck(ctx, st, check, i, result); err != nil {
			return nil, fmt.Errorf("check %d: %w", i+1, err)
		}
	}

	return result, nil
}

func runStep(ctx context.Context, svc *workflow.Service, p workflow.Prompter, op string) error {
	switch op {
	case OpAddCustomer:
		_, err := svc.AddCustomer(ctx, p)
		return err
	case OpAddMechanic:
		_, err := svc.AddMechanic(ctx, p)
		return err
	case OpAddCar:
		_, err := svc.AddCar(ctx, p)
		return err
	case OpOpenRequest:
		_, err := svc.Open(ctx, p)
		return err
	case OpCloseRequest:
		_, err := svc.Close(ctx, p)
		return err
	default:
		return fmt.Errorf("unknown op %q", op)
	}
}

func runCheck(ctx context.Context, st *store.Store, check Check, i int, result *Result) error {
	switch check.Type {
	case CheckReport:
		table, err := reportTable(ctx, st, check)
		if err != nil {
			return err
		}
		if !rowsEqual(table.Rows, check.Rows) {
			result.failf("check %d (report %s): got rows %v, want %v",
				i+1, check.Report, table.Rows, check.Rows)
		}
	case CheckRowCount:
		// Table names cannot be bound as parameters; validateScenario has
		// already checked check.Table against the allowlist.
		rows, err := st.QueryRows(ctx, "SELECT COUNT(*) FROM "+check.Table)
		if err != nil {
			return err
		}
		count, err := strconv.Atoi(rows[0][0])
		if err != nil {
			return fmt.Errorf("non-numeric count %q: %w", rows[0][0], err)
		}
		if count != check.Count {
			result.failf("check %d (row_count %s): got %d rows, want %d",
				i+1, check.Table, count, check.Count)
		}
	case CheckState:
		stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
			strings.Join(check.Columns, ", "), check.Table, check.Columns[0])
		rows, err := st.QueryRows(ctx, stmt)
		if err != nil {
			return err
		}
		if !rowsEqual(rows, check.Rows) {
			result.failf("check %d (state %s): got rows %v, want %v",
				i+1, check.Table, rows, check.Rows)
		}
	default:
		return fmt.Errorf("unknown check type %q", check.Type)
	}
	return nil
}

// reportTable runs the named report and returns its rendered-ready table.
func reportTable(ctx context.Context, st *store.Store, check Check) (report.Table, error) {
	switch check.Report {
	case ReportSmallBills:
		rows, err := report.SmallBills(ctx, st)
		if err != nil {
			return report.Table{}, err
		}
		return report.SmallBillsTable(rows), nil
	case ReportManyCars:
		rows, err := report.CustomersWithManyCars(ctx, st)
		if err != nil {
			return report.Table{}, err
		}
		return report.ManyCarsTable(rows), nil
	case ReportOldCars:
		rows, err := report.OldLowMileageCars(ctx, st)
		if err != nil {
			return report.Table{}, err
		}
		return report.OldCarsTable(rows), nil
	case ReportTopCars:
		rows, err := report.TopServicedCars(ctx, st, check.K)
		if err != nil {
			return report.Table{}, err
		}
		return report.TopCarsTable(rows), nil
	case ReportTotalBills:
		rows, err := report.CustomersByTotalBill(ctx, st)
		if err != nil {
			return report.Table{}, err
		}
		return report.TotalBillsTable(rows), nil
	default:
		return report.Table{}, fmt.Errorf("unknown report %q", check.Report)
	}
}

// rowsEqual compares two row sets cell by cell. Nil and empty are equal.
func rowsEqual(got, want [][]string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if len(got[i]) != len(want[i]) {
			return false
		}
		for j := range got[i] {
			if got[i][j] != want[i][j] {
				return false
			}
		}
	}
	return true
}
