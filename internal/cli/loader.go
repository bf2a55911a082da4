package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/veilstore/veil/internal/rec"
)

// LoadError represents an error that occurred during schema loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants for the schema loader.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeBadTable    = "E101" // Table descriptor invalid
)

// cueColumn mirrors a column entry in a CUE table descriptor.
type cueColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// cueTable mirrors a table descriptor in a CUE file.
type cueTable struct {
	Columns []cueColumn `json:"columns"`
}

// LoadSchemas loads table descriptors from the CUE files in a directory.
//
// Descriptors live under the top-level "table" struct, one field per table:
//
//	table: items: {
//		columns: [
//			{name: "value", type: "TEXT"},
//			{name: "smth", type: "INT"},
//		]
//	}
//
// Schemas are returned sorted by table name. All descriptor errors are
// collected rather than stopping at the first.
func LoadSchemas(dir string) ([]rec.TableSchema, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	tablesVal := value.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeBadTable, Message: "no top-level \"table\" struct found"}}
	}
	iter, iterErr := tablesVal.Fields()
	if iterErr != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating tables: %v", iterErr)}}
	}

	var errs []error
	var schemas []rec.TableSchema
	for iter.Next() {
		name := iter.Label()
		var tbl cueTable
		if err := iter.Value().Decode(&tbl); err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("table.%s: %v", name, err)})
			continue
		}
		schema, err := buildSchema(name, tbl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		schemas = append(schemas, schema)
	}
	if len(schemas) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeBadTable, Message: "no table descriptors found"})
	}

	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas, errs
}

// buildSchema converts a decoded descriptor into a table schema.
func buildSchema(name string, tbl cueTable) (rec.TableSchema, error) {
	if len(tbl.Columns) == 0 {
		return rec.TableSchema{}, &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("table.%s: no columns defined", name)}
	}
	schema := rec.TableSchema{Name: name}
	for i, col := range tbl.Columns {
		if col.Name == "" {
			return rec.TableSchema{}, &LoadError{Code: ErrCodeBadTable, Message: fmt.Sprintf("table.%s: column %d has no name", name, i)}
		}
		schema.Columns = append(schema.Columns, rec.Column{
			Name:         rec.NormalizeName(col.Name),
			DeclaredType: col.Type,
		})
	}
	return schema, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
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
