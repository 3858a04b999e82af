package intent

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads and validates a YAML keyword table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent table %s: %w", path, err)
	}

	table, err := ParseTable(data)
	if err != nil {
		var tableErr *TableError
		if errors.As(err, &tableErr) {
			tableErr.Source = path
			return nil, tableErr
		}
		return nil, fmt.Errorf("failed to parse intent table %s: %w", path, err)
	}
	return table, nil
}

// ParseTable decodes and validates a YAML keyword table. Unknown fields are
// rejected so typos surface at load time.
func ParseTable(data []byte) (*Table, error) {
	var table Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// Reload loads the table at path and swaps it into c.
func (c *KeywordClassifier) Reload(path string) error {
	table, err := LoadTable(path)
	if err != nil {
		return err
	}
	return c.Swap(table)
}
