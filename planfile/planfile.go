package planfile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	modplan "github.com/albertocavalcante/go-modplan"
)

// CurrentVersion is the plan file format version written by this package.
const CurrentVersion = 1

// planFilePermissions is the file permission mode for plan files.
const planFilePermissions = 0o600

// ErrUnsupportedVersion is returned when a plan file has an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported plan file version")

// File is the on-disk form of a build plan.
type File struct {
	// Version is the plan file format version.
	Version int `json:"planFileVersion"`

	// Fingerprint is the content hash of Plan at the time it was written.
	Fingerprint string `json:"fingerprint"`

	// Plan is the stored build plan.
	Plan *modplan.BuildPlan `json:"plan"`
}

// New wraps a plan for persistence. The plan is copied and normalized so
// that empty collections serialize the same way regardless of how they
// were built.
func New(plan *modplan.BuildPlan) *File {
	p := normalize(plan)
	return &File{
		Version:     CurrentVersion,
		Fingerprint: fingerprint(p),
		Plan:        p,
	}
}

// Fingerprint returns a stable content hash of a plan, as "sha256:<hex>".
// Two plans have the same fingerprint exactly when they have the same root,
// order, edges, descriptors and disabled report.
func Fingerprint(plan *modplan.BuildPlan) string {
	return fingerprint(normalize(plan))
}

func fingerprint(p *modplan.BuildPlan) string {
	data, err := encode(p)
	if err != nil {
		// BuildPlan holds only strings, slices and maps of them.
		panic(fmt.Sprintf("planfile: encode plan: %v", err))
	}
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}

// Stale reports whether the stored plan differs from plan.
func (f *File) Stale(plan *modplan.BuildPlan) bool {
	return f.Fingerprint != Fingerprint(plan)
}

// ReadFile reads and parses a plan file from the given path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

// Parse parses plan file JSON data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse plan file JSON: %w", err)
	}
	if f.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrUnsupportedVersion, f.Version, CurrentVersion)
	}
	if f.Plan == nil {
		return nil, errors.New("plan file has no plan")
	}
	f.Plan = normalize(f.Plan)
	return &f, nil
}

// WriteFile writes the plan file to the given path with deterministic formatting.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, planFilePermissions)
}

// WriteTo writes the plan file to the given writer.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	data, err := f.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Marshal serializes the plan file as indented JSON. Map keys are sorted by
// encoding/json, and every slice is kept in plan order, so the output is a
// pure function of the plan.
func (f *File) Marshal() ([]byte, error) {
	return encode(f)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize returns a deep copy of plan with nil collections replaced by
// empty ones and descriptor dependency lists set to nil when empty.
func normalize(plan *modplan.BuildPlan) *modplan.BuildPlan {
	if plan == nil {
		plan = &modplan.BuildPlan{}
	}
	p := &modplan.BuildPlan{
		Root:         plan.Root,
		Order:        nonNil(slices.Clone(plan.Order)),
		PublicEdges:  slices.Clone(plan.PublicEdges),
		PrivateEdges: slices.Clone(plan.PrivateEdges),
		Modules:      make(map[string]modplan.ModuleDescriptor, len(plan.Modules)),
		Disabled:     slices.Clone(plan.Disabled),
	}
	for name, desc := range plan.Modules {
		d := desc.Clone()
		d.PublicDependencies = nilIfEmpty(d.PublicDependencies)
		d.PrivateDependencies = nilIfEmpty(d.PrivateDependencies)
		d.DisabledDependencies = nilIfEmpty(d.DisabledDependencies)
		p.Modules[name] = d
	}
	if len(p.PublicEdges) == 0 {
		p.PublicEdges = nil
	}
	if len(p.PrivateEdges) == 0 {
		p.PrivateEdges = nil
	}
	if len(p.Disabled) == 0 {
		p.Disabled = nil
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Exists returns true if a plan file exists at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DefaultPath returns the conventional plan file name for a root module.
func DefaultPath(root string) string {
	return root + ".plan.json"
}
