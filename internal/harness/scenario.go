package harness

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end lifecycle scenario: a sequence of scripted
// operations followed by checks against the resulting database state.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Policy selects the validation policy for the run: "lenient" (default)
	// or "strict".
	Policy string `yaml:"policy,omitempty"`

	// Steps are the operations to run, in order. Each step gets a fresh
	// input script.
	Steps []Step `yaml:"steps"`

	// Checks validate the final state after all steps have run.
	Checks []Check `yaml:"checks"`
}

// Step is a single scripted operation.
type Step struct {
	// Op names the operation to run.
	Op string `yaml:"op"`

	// Inputs is the line-by-line answer script for the operation's prompts.
	Inputs []string `yaml:"inputs"`

	// ExpectError, when set, is the error code this step must fail with.
	// An empty value means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Operation names accepted in Step.Op.
const (
	OpAddCustomer  = "add-customer"
	OpAddMechanic  = "add-mechanic"
	OpAddCar       = "add-car"
	OpOpenRequest  = "open-request"
	OpCloseRequest = "close-request"
)

// Check validates final state. Three kinds are supported:
//   - "report": run a named report and compare its data rows exactly.
//   - "row_count": count the rows in a table.
//   - "state": select named columns from a table, ordered by the first
//     column, and compare the rows exactly.
type Check struct {
	Type string `yaml:"type"`

	// Report is the report name ("report" checks). K applies to top-cars.
	Report string `yaml:"report,omitempty"`
	K      int    `yaml:"k,omitempty"`

	// Table is the table name ("row_count" and "state" checks).
	Table string `yaml:"table,omitempty"`

	// Columns are the columns to select ("state" checks).
	Columns []string `yaml:"columns,omitempty"`

	// Rows are the expected data rows ("report" and "state" checks).
	Rows [][]string `yaml:"rows,omitempty"`

	// Count is the expected row count ("row_count" checks).
	Count int `yaml:"count,omitempty"`
}

// Check type constants.
const (
	CheckReport   = "report"
	CheckRowCount = "row_count"
	CheckState    = "state"
)

var knownOps = map[string]bool{
	OpAddCustomer:  true,
	OpAddMechanic:  true,
	OpAddCar:       true,
	OpOpenRequest:  true,
	OpCloseRequest: true,
}

var knownReports = map[string]bool{
	ReportSmallBills: true,
	ReportManyCars:   true,
	ReportOldCars:    true,
	ReportTopCars:    true,
	ReportTotalBills: true,
}

var knownErrorCodes = map[string]bool{
	"INPUT_ERROR":      true,
	"LOOKUP_ERROR":     true,
	"ALLOCATION_ERROR": true,
	"STORAGE_ERROR":    true,
}

// knownTables are the tables checks may reference. Table and column names
// end up interpolated into statement text, so they are allowlisted here and
// pattern-checked in validateScenario.
var knownTables = map[string]bool{
	"Customer":        true,
	"Mechanic":        true,
	"Car":             true,
	"Owns":            true,
	"Service_Request": true,
	"Closed_Request":  true,
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so a typo like "step:" for "steps:" fails loudly instead of
// silently running nothing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Policy != "" && s.Policy != "lenient" && s.Policy != "strict" {
		return fmt.Errorf("policy must be lenient or strict, got %q", s.Policy)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if len(step.Inputs) == 0 {
			return fmt.Errorf("steps[%d]: inputs is required", i)
		}
		if step.ExpectError != "" && !knownErrorCodes[step.ExpectError] {
			return fmt.Errorf("steps[%d]: unknown error code %q", i, step.ExpectError)
		}
	}

	for i, check := range s.Checks {
		switch check.Type {
		case CheckReport:
			if !knownReports[check.Report] {
				return fmt.Errorf("checks[%d]: unknown report %q", i, check.Report)
			}
			if check.Report == ReportTopCars && check.K < 1 {
				return fmt.Errorf("checks[%d]: top-cars requires a positive k", i)
			}
		case CheckRowCount:
			if !knownTables[check.Table] {
				return fmt.Errorf("checks[%d]: unknown table %q", i, check.Table)
			}
		case CheckState:
			if !knownTables[check.Table] {
				return fmt.Errorf("checks[%d]: unknown table %q", i, check.Table)
			}
			if len(check.Columns) == 0 {
				return fmt.Errorf("checks[%d]: state check requires columns", i)
			}
			for _, col := range check.Columns {
				if !identPattern.MatchString(col) {
					return fmt.Errorf("checks[%d]: invalid column name %q", i, col)
				}
			}
		default:
			return fmt.Errorf("checks[%d]: unknown check type %q", i, check.Type)
		}
	}

	return nil
}
