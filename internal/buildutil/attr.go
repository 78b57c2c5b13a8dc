// Package buildutil provides helpers for extracting attributes from
// buildtools Starlark call expressions.
package buildutil

import (
	"regexp"

	"github.com/bazelbuild/buildtools/build"
)

// String extracts a string attribute from a function call by name.
// If name is empty and the call has positional arguments, returns the first
// positional string argument.
// Returns empty string if the attribute is not found or not a string.
func String(call *build.CallExpr, name string) string {
	if name == "" && len(call.List) > 0 {
		if str, ok := call.List[0].(*build.StringExpr); ok {
			return str.Value
		}
		return ""
	}

	if str, ok := Attr(call, name).(*build.StringExpr); ok {
		return str.Value
	}
	return ""
}

// FirstString returns the first non-empty string attribute among names.
func FirstString(call *build.CallExpr, names ...string) string {
	for _, name := range names {
		if v := String(call, name); v != "" {
			return v
		}
	}
	return ""
}

// Attr returns the right-hand side of the named keyword argument, or nil.
func Attr(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS
	}
	return nil
}

// Lists returns every list literal passed to the call, either as the named
// keyword argument or positionally, in argument order.
func Lists(call *build.CallExpr, name string) []*build.ListExpr {
	var lists []*build.ListExpr
	for _, arg := range call.List {
		switch a := arg.(type) {
		case *build.ListExpr:
			lists = append(lists, a)
		case *build.AssignExpr:
			lhs, ok := a.LHS.(*build.Ident)
			if !ok || lhs.Name != name {
				continue
			}
			if list, ok := a.RHS.(*build.ListExpr); ok {
				lists = append(lists, list)
			}
		}
	}
	return lists
}

// Strings collects every string a call passes for name: elements of list
// literals (positional or keyword) and bare positional strings, in order.
//
//	public_deps(["Core", "Engine"])
//	public_deps(names = ["Core", "Engine"])
//	public_deps("Core", "Engine")
func Strings(call *build.CallExpr, name string) []string {
	var out []string
	for _, arg := range call.List {
		switch a := arg.(type) {
		case *build.StringExpr:
			out = append(out, a.Value)
		case *build.ListExpr:
			out = append(out, listStrings(a)...)
		case *build.AssignExpr:
			lhs, ok := a.LHS.(*build.Ident)
			if !ok || lhs.Name != name {
				continue
			}
			if list, ok := a.RHS.(*build.ListExpr); ok {
				out = append(out, listStrings(list)...)
			}
		}
	}
	return out
}

func listStrings(list *build.ListExpr) []string {
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}

var quotedPattern = regexp.MustCompile(`"([^"\\]+)"`)

// CommentedStrings returns the quoted strings found in whole-line comments
// inside a list literal, in source order. This recovers entries that were
// commented out of the list:
//
//	[
//	    "Core",
//	    # "Niagara", "EnhancedInput",
//	]
//
// Trailing comments on an entry's own line are notes, not entries, and are
// ignored.
func CommentedStrings(list *build.ListExpr) []string {
	var out []string
	collect := func(comments []build.Comment) {
		for _, c := range comments {
			for _, m := range quotedPattern.FindAllStringSubmatch(c.Token, -1) {
				out = append(out, m[1])
			}
		}
	}
	for _, elem := range list.List {
		cs := elem.Comment()
		collect(cs.Before)
		collect(cs.After)
	}
	collect(list.End.Before)
	return out
}

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}
