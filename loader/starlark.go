package loader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bazelbuild/buildtools/build"

	"github.com/albertocavalcante/go-modplan/internal/buildutil"
)

// parseStarlark extracts records from a Starlark descriptor. Each module()
// call starts a new record; the *_deps calls that follow append to it, so
// repeated calls accumulate in source order.
func parseStarlark(filename string, data []byte, cfg *config) ([]Record, error) {
	f, err := build.ParseDefault(filename, data)
	if err != nil {
		return nil, err
	}

	var records []Record
	// parked holds commented-out names per record, merged once all calls are read.
	var parked [][]string
	current := func(call *build.CallExpr) (*Record, error) {
		if len(records) == 0 {
			start, _ := call.Span()
			return nil, fmt.Errorf("line %d: %s() before module()", start.Line, buildutil.FuncName(call))
		}
		return &records[len(records)-1], nil
	}

	for _, stmt := range f.Stmt {
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			continue
		}

		switch buildutil.FuncName(call) {
		case "module":
			name := buildutil.String(call, "name")
			if name == "" {
				name = buildutil.String(call, "")
			}
			records = append(records, Record{
				Name:             name,
				LanguageStandard: buildutil.FirstString(call, "language_standard", "cpp_standard"),
				PCHMode:          buildutil.FirstString(call, "pch_mode", "pch_usage"),
			})
			parked = append(parked, nil)

		case "public_deps":
			rec, err := current(call)
			if err != nil {
				return nil, err
			}
			rec.Public = append(rec.Public, buildutil.Strings(call, "names")...)
			if cfg.commentedDisabled {
				parked[len(parked)-1] = append(parked[len(parked)-1], commented(call)...)
			}

		case "private_deps":
			rec, err := current(call)
			if err != nil {
				return nil, err
			}
			rec.Private = append(rec.Private, buildutil.Strings(call, "names")...)
			if cfg.commentedDisabled {
				parked[len(parked)-1] = append(parked[len(parked)-1], commented(call)...)
			}

		case "disabled_deps":
			rec, err := current(call)
			if err != nil {
				return nil, err
			}
			rec.Disabled = append(rec.Disabled, buildutil.Strings(call, "names")...)
		}
	}

	if len(records) == 0 {
		return nil, errors.New("no module() declaration found")
	}
	for i := range records {
		records[i].Disabled = appendParked(&records[i], parked[i])
	}
	return records, nil
}

// appendParked adds commented-out names to the record's disabled list,
// skipping any name the record already declares.
func appendParked(rec *Record, names []string) []string {
	disabled := rec.Disabled
	for _, name := range names {
		if slices.Contains(rec.Public, name) || slices.Contains(rec.Private, name) || slices.Contains(disabled, name) {
			continue
		}
		disabled = append(disabled, name)
	}
	return disabled
}

func commented(call *build.CallExpr) []string {
	var names []string
	for _, list := range buildutil.Lists(call, "names") {
		names = append(names, buildutil.CommentedStrings(list)...)
	}
	return names
}
