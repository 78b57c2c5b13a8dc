package loader

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// parseYAML decodes one record per YAML document. Empty documents are skipped.
func parseYAML(data []byte) ([]Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var records []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if isEmpty(rec) {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.New("no module found")
	}
	return records, nil
}

func isEmpty(r Record) bool {
	return r.Name == "" && r.LanguageStandard == "" && r.PCHMode == "" &&
		len(r.Public) == 0 && len(r.Private) == 0 && len(r.Disabled) == 0
}
