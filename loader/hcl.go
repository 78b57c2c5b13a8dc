package loader

import (
	"errors"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile represents the top-level structure of an HCL descriptor for decoding.
type hclFile struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	Name             string   `hcl:"name,label"`
	LanguageStandard string   `hcl:"language_standard,optional"`
	PCHMode          string   `hcl:"pch_mode,optional"`
	Public           []string `hcl:"public,optional"`
	Private          []string `hcl:"private,optional"`
	Disabled         []string `hcl:"disabled,optional"`
}

func parseHCL(filename string, data []byte) ([]Record, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, diags
	}
	if len(parsed.Modules) == 0 {
		return nil, errors.New("no module block found")
	}

	records := make([]Record, 0, len(parsed.Modules))
	for _, m := range parsed.Modules {
		records = append(records, Record{
			Name:             m.Name,
			LanguageStandard: m.LanguageStandard,
			PCHMode:          m.PCHMode,
			Public:           m.Public,
			Private:          m.Private,
			Disabled:         m.Disabled,
		})
	}
	return records, nil
}
