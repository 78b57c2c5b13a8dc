package modplan

import "strings"

// Validate checks a descriptor for internal consistency and returns a
// normalized copy: names trimmed, enum values in canonical spelling,
// declaration order preserved.
//
// Every problem is reported. The returned error is a *ValidationErrors whose
// entries are *DuplicateDependencyError, *SelfDependencyError,
// *UnrecognizedOptionError or *InvalidNameError; all match ErrConfig.
// Validate is pure and idempotent.
func Validate(d ModuleDescriptor) (ModuleDescriptor, error) {
	out := ModuleDescriptor{
		Name:                 strings.TrimSpace(d.Name),
		PublicDependencies:   trimAll(d.PublicDependencies),
		PrivateDependencies:  trimAll(d.PrivateDependencies),
		DisabledDependencies: trimAll(d.DisabledDependencies),
	}
	errs := &ValidationErrors{Module: out.Name}

	if out.Name == "" {
		errs.add(&InvalidNameError{Field: "name"})
	}

	std, ok := ParseLanguageStandard(string(d.LanguageStandard))
	if !ok {
		errs.add(&UnrecognizedOptionError{Module: out.Name, Option: "language standard", Value: string(d.LanguageStandard)})
	}
	out.LanguageStandard = std

	pch, ok := ParsePCHMode(string(d.PCHMode))
	if !ok {
		errs.add(&UnrecognizedOptionError{Module: out.Name, Option: "precompiled header mode", Value: string(d.PCHMode)})
	}
	out.PCHMode = pch

	seen := make(map[string]bool)
	selfReported := false
	check := func(field string, names []string) {
		for _, name := range names {
			switch {
			case name == "":
				errs.add(&InvalidNameError{Module: out.Name, Field: field})
			case name == out.Name:
				if !selfReported {
					errs.add(&SelfDependencyError{Module: out.Name})
					selfReported = true
				}
			case seen[name]:
				errs.add(&DuplicateDependencyError{Module: out.Name, Name: name})
			default:
				seen[name] = true
			}
		}
	}
	check("public dependencies", out.PublicDependencies)
	check("private dependencies", out.PrivateDependencies)
	check("disabled dependencies", out.DisabledDependencies)

	if err := errs.toError(); err != nil {
		return ModuleDescriptor{}, err
	}
	return out, nil
}

// trimAll returns a trimmed copy of names. Nil stays nil.
func trimAll(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}
