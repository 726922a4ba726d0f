package helplines

import (
	"counsel/pkg/model"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultMessage = "If you are in immediate danger call emergency services first."

// Directory is the static list of crisis contacts returned for HELPLINE
// requests.
type Directory struct {
	Message   string           `yaml:"message"`
	Helplines []model.Helpline `yaml:"helplines"`
}

func Default() *Directory {
	return &Directory{
		Message: DefaultMessage,
		Helplines: []model.Helpline{
			{Country: "India", Number: "+91-XXXXXXXXXX", Label: "Campus Helpline (24/7)"},
		},
	}
}

// Load reads a directory from a YAML file. An empty path yields Default.
func Load(path string) (*Directory, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read helplines file: %w", err)
	}

	var dir Directory
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("failed to parse helplines file: %w", err)
	}
	if err := dir.normalize(); err != nil {
		return nil, err
	}
	return &dir, nil
}

func (d *Directory) normalize() error {
	if d.Message == "" {
		d.Message = DefaultMessage
	}
	if len(d.Helplines) == 0 {
		return errors.New("helplines file lists no helplines")
	}
	for i, h := range d.Helplines {
		if h.Number == "" || h.Label == "" {
			return fmt.Errorf("helpline %d: number and label are required", i)
		}
	}
	return nil
}

// List returns a copy of the helplines so callers cannot mutate the directory.
func (d *Directory) List() []model.Helpline {
	out := make([]model.Helpline, len(d.Helplines))
	copy(out, d.Helplines)
	return out
}
