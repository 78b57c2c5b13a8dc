package modplan

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    ModuleDescriptor
		want    ModuleDescriptor
		wantErr []error
	}{
		{
			name: "minimal descriptor gets defaults",
			desc: ModuleDescriptor{Name: "Core"},
			want: ModuleDescriptor{Name: "Core", LanguageStandard: StandardDefault, PCHMode: PCHExplicitOrShared},
		},
		{
			name: "names trimmed and enums normalized",
			desc: ModuleDescriptor{
				Name:                " Game ",
				LanguageStandard:    "CppStandardVersion.Cpp20",
				PCHMode:             "UseSharedPCHs",
				PublicDependencies:  []string{" Engine", "Core "},
				PrivateDependencies: []string{"Audio"},
			},
			want: ModuleDescriptor{
				Name:                "Game",
				LanguageStandard:    StandardCpp20,
				PCHMode:             PCHShared,
				PublicDependencies:  []string{"Engine", "Core"},
				PrivateDependencies: []string{"Audio"},
			},
		},
		{
			name:    "same name public and private",
			desc:    ModuleDescriptor{Name: "A", PublicDependencies: []string{"X"}, PrivateDependencies: []string{"X"}},
			wantErr: []error{&DuplicateDependencyError{Module: "A", Name: "X"}},
		},
		{
			name:    "repeated within one list",
			desc:    ModuleDescriptor{Name: "A", PublicDependencies: []string{"X", "Y", "X"}},
			wantErr: []error{&DuplicateDependencyError{Module: "A", Name: "X"}},
		},
		{
			name:    "disabled also listed as active",
			desc:    ModuleDescriptor{Name: "A", PrivateDependencies: []string{"X"}, DisabledDependencies: []string{"X"}},
			wantErr: []error{&DuplicateDependencyError{Module: "A", Name: "X"}},
		},
		{
			name:    "self dependency reported once",
			desc:    ModuleDescriptor{Name: "A", PublicDependencies: []string{"A"}, PrivateDependencies: []string{"A"}},
			wantErr: []error{&SelfDependencyError{Module: "A"}},
		},
		{
			name:    "unrecognized language standard",
			desc:    ModuleDescriptor{Name: "A", LanguageStandard: "cpp98"},
			wantErr: []error{&UnrecognizedOptionError{Module: "A", Option: "language standard", Value: "cpp98"}},
		},
		{
			name:    "unrecognized pch mode",
			desc:    ModuleDescriptor{Name: "A", PCHMode: "always"},
			wantErr: []error{&UnrecognizedOptionError{Module: "A", Option: "precompiled header mode", Value: "always"}},
		},
		{
			name:    "empty names",
			desc:    ModuleDescriptor{Name: " ", PublicDependencies: []string{""}},
			wantErr: []error{&InvalidNameError{Field: "name"}, &InvalidNameError{Field: "public dependencies"}},
		},
		{
			name: "every problem collected",
			desc: ModuleDescriptor{
				Name:                "A",
				LanguageStandard:    "cpp98",
				PublicDependencies:  []string{"A", "X"},
				PrivateDependencies: []string{"X"},
			},
			wantErr: []error{
				&UnrecognizedOptionError{Module: "A", Option: "language standard", Value: "cpp98"},
				&SelfDependencyError{Module: "A"},
				&DuplicateDependencyError{Module: "A", Name: "X"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.desc)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("Validate() = %+v, want %+v", got, tt.want)
				}
				return
			}

			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !errors.Is(err, ErrConfig) {
				t.Errorf("error should match ErrConfig: %v", err)
			}
			if errors.Is(err, ErrResolve) {
				t.Errorf("validation error should not match ErrResolve: %v", err)
			}
			var ve *ValidationErrors
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationErrors", err)
			}
			if !reflect.DeepEqual(ve.Errors, tt.wantErr) {
				t.Errorf("errors = %v, want %v", ve.Errors, tt.wantErr)
			}
			if !reflect.DeepEqual(got, ModuleDescriptor{}) {
				t.Errorf("failed Validate() should return a zero descriptor, got %+v", got)
			}
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	descs := []ModuleDescriptor{
		{Name: "Core"},
		{Name: " Game", LanguageStandard: "Latest", PCHMode: "NoSharedPCHs", PublicDependencies: []string{"Engine "}},
		{Name: "Editor", PCHMode: "PCHUsageMode.NoPCHs", DisabledDependencies: []string{"Niagara"}},
	}

	for _, d := range descs {
		t.Run(d.Name, func(t *testing.T) {
			once, err := Validate(d)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			twice, err := Validate(once)
			if err != nil {
				t.Fatalf("second Validate() error = %v", err)
			}
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("Validate() not idempotent: %+v != %+v", once, twice)
			}
		})
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	deps := []string{" Core "}
	d := ModuleDescriptor{Name: "A", PublicDependencies: deps}
	if _, err := Validate(d); err != nil {
		t.Fatal(err)
	}
	if deps[0] != " Core " {
		t.Errorf("input slice was modified: %q", deps[0])
	}
}

func TestValidationErrors_Error(t *testing.T) {
	single := &ValidationErrors{Module: "A", Errors: []error{&SelfDependencyError{Module: "A"}}}
	if got, want := single.Error(), "module A: depends on itself"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := &ValidationErrors{Errors: []error{&InvalidNameError{Field: "name"}, &InvalidNameError{Field: "public dependencies"}}}
	want := "2 validation errors:\n  - name: name must not be empty\n  - public dependencies: name must not be empty"
	if got := multi.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
