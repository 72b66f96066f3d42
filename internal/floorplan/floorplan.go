// Package floorplan loads the restaurant floor plan from CUE files. A
// floor plan declares the tables (id, capacity, service state) and may
// override individual service-policy constants.
package floorplan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/maitred-run/maitred/internal/entity"
)

// Error code constants reported by the loader.
const (
	ErrCodeGeneric     = "F001" // generic/unknown error
	ErrCodeScanError   = "F002" // directory scan error
	ErrCodeNoFiles     = "F003" // no CUE files found
	ErrCodeLoadFailed  = "F004" // CUE load failed
	ErrCodeNotFound    = "F005" // path not found
	ErrCodeBuildFailed = "F006" // CUE build failed
	ErrCodeBadTable    = "F101" // invalid table declaration
	ErrCodeBadPolicy   = "F102" // invalid policy override
)

// LoadError is a floor plan loading failure.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TableSpec is one declared table.
type TableSpec struct {
	ID           string
	Capacity     int
	OutOfService bool
}

// Plan is a loaded floor plan.
type Plan struct {
	Tables []TableSpec

	// Policy is the service policy with any declared overrides applied
	// on top of the defaults.
	Policy entity.Policy

	FileCount int
}

// Load reads every .cue file in dir and extracts the floor plan.
//
// Expected shape:
//
//	tables: window_2: {capacity: 2}
//	tables: patio_6:  {capacity: 6, out_of_service: true}
//	policy: {default_duration_minutes: 90, max_party_size: 12}
func Load(dir string) (*Plan, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("floor plan directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing floor plan directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	// Files are passed explicitly so plans without a package clause
	// still load as one merged instance.
	ctx := cuecontext.New()
	instances := load.Instances(cueFiles, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	plan := &Plan{Policy: entity.DefaultPolicy(), FileCount: len(cueFiles)}

	if err := extractTables(value, plan); err != nil {
		return nil, err
	}
	if err := extractPolicy(value, plan); err != nil {
		return nil, err
	}

	if len(plan.Tables) == 0 {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "floor plan declares no tables"}
	}
	sort.Slice(plan.Tables, func(i, j int) bool { return plan.Tables[i].ID < plan.Tables[j].ID })
	return plan, nil
}

func extractTables(value cue.Value, plan *Plan) error {
	tablesVal := value.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil
	}
	iter, err := tablesVal.Fields()
	if err != nil {
		return &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("iterating tables: %v", err), Pos: tablesVal.Pos()}
	}
	for iter.Next() {
		tv := iter.Value()
		spec := TableSpec{ID: iter.Label()}

		capVal := tv.LookupPath(cue.ParsePath("capacity"))
		if !capVal.Exists() {
			return &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("table %s: missing capacity", spec.ID), Pos: tv.Pos()}
		}
		capacity, err := capVal.Int64()
		if err != nil {
			return &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("table %s: capacity: %v", spec.ID, err), Pos: capVal.Pos()}
		}
		if capacity <= 0 {
			return &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("table %s: capacity must be positive, got %d", spec.ID, capacity), Pos: capVal.Pos()}
		}
		spec.Capacity = int(capacity)

		if oos := tv.LookupPath(cue.ParsePath("out_of_service")); oos.Exists() {
			b, err := oos.Bool()
			if err != nil {
				return &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("table %s: out_of_service: %v", spec.ID, err), Pos: oos.Pos()}
			}
			spec.OutOfService = b
		}

		plan.Tables = append(plan.Tables, spec)
	}
	return nil
}

func extractPolicy(value cue.Value, plan *Plan) error {
	policyVal := value.LookupPath(cue.ParsePath("policy"))
	if !policyVal.Exists() {
		return nil
	}

	minutes := func(field string, into *time.Duration) error {
		v := policyVal.LookupPath(cue.ParsePath(field))
		if !v.Exists() {
			return nil
		}
		n, err := v.Int64()
		if err != nil {
			return &LoadError{Code: ErrCodeBadPolicy, Message: fmt.Sprintf("policy.%s: %v", field, err), Pos: v.Pos()}
		}
		if n <= 0 {
			return &LoadError{Code: ErrCodeBadPolicy, Message: fmt.Sprintf("policy.%s must be positive, got %d", field, n), Pos: v.Pos()}
		}
		*into = time.Duration(n) * time.Minute
		return nil
	}

	if err := minutes("default_duration_minutes", &plan.Policy.DefaultDuration); err != nil {
		return err
	}
	if err := minutes("min_duration_minutes", &plan.Policy.MinDuration); err != nil {
		return err
	}
	if err := minutes("max_duration_minutes", &plan.Policy.MaxDuration); err != nil {
		return err
	}
	if err := minutes("arrive_early_minutes", &plan.Policy.ArriveEarly); err != nil {
		return err
	}
	if err := minutes("arrive_late_minutes", &plan.Policy.ArriveLate); err != nil {
		return err
	}

	if v := policyVal.LookupPath(cue.ParsePath("max_party_size")); v.Exists() {
		n, err := v.Int64()
		if err != nil {
			return &LoadError{Code: ErrCodeBadPolicy, Message: fmt.Sprintf("policy.max_party_size: %v", err), Pos: v.Pos()}
		}
		if n <= 0 {
			return &LoadError{Code: ErrCodeBadPolicy, Message: fmt.Sprintf("policy.max_party_size must be positive, got %d", n), Pos: v.Pos()}
		}
		plan.Policy.MaxPartySize = int(n)
	}

	if plan.Policy.MinDuration > plan.Policy.MaxDuration {
		return &LoadError{Code: ErrCodeBadPolicy, Message: "policy: min duration exceeds max duration"}
	}
	return nil
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
