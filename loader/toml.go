package loader

import (
	"bytes"
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// tomlFile accepts either a single top-level module or [[module]] tables.
type tomlFile struct {
	Name             string   `toml:"name"`
	LanguageStandard string   `toml:"language_standard"`
	PCHMode          string   `toml:"pch_mode"`
	Public           []string `toml:"public"`
	Private          []string `toml:"private"`
	Disabled         []string `toml:"disabled"`

	Modules []Record `toml:"module"`
}

func parseTOML(data []byte) ([]Record, error) {
	var f tomlFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}

	var records []Record
	top := Record{
		Name:             f.Name,
		LanguageStandard: f.LanguageStandard,
		PCHMode:          f.PCHMode,
		Public:           f.Public,
		Private:          f.Private,
		Disabled:         f.Disabled,
	}
	if !isEmpty(top) {
		records = append(records, top)
	}
	records = append(records, f.Modules...)

	if len(records) == 0 {
		return nil, errors.New("no module found")
	}
	return records, nil
}
