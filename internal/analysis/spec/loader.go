package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/table"
	"github.com/DjordjeVuckovic/tsp-results/internal/apperr"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, apperr.NewValidationWrap("parse config YAML", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseJSON reads a config from a JSON request body.
func ParseJSON(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, apperr.NewValidationWrap("parse config JSON", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the config and fills in defaults. Failures are returned as
// *apperr.ValidationError.
func Validate(c *Config) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = formatFieldError(fe)
			}
			return apperr.NewValidation("invalid config: " + strings.Join(msgs, "; "))
		}
		return apperr.NewValidationWrap("invalid config", err)
	}

	if _, err := c.Schema(); err != nil {
		return apperr.NewValidationWrap("invalid input schema", err)
	}
	for _, d := range c.Derived {
		if _, err := table.LookupDerivation(d); err != nil {
			return apperr.NewValidationWrap("invalid derived column", err)
		}
	}
	if r := c.Reference; r != nil {
		if n := r.sources(); n != 1 {
			return apperr.NewValidation(fmt.Sprintf("reference needs exactly one of file, values, default or database, got %d", n))
		}
		if len(r.Values) > 0 {
			if err := evaluate.ReferenceTable(r.Values).Validate(); err != nil {
				return apperr.NewValidationWrap("invalid reference values", err)
			}
		}
		if r.Key == "" && len(c.Aggregation.Keys) > 1 {
			return apperr.NewValidation("reference key is required with composite group keys")
		}
	}

	if c.Input.Schema == "" && len(c.Input.Columns) == 0 {
		c.Input.Schema = schema.NameGA
	}
	if c.Output.Format == "" {
		c.Output.Format = report.FormatFromPath(c.Output.Path)
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Schema resolves the input schema by name or from inline columns.
func (c *Config) Schema() (*schema.Schema, error) {
	name := c.Input.Schema
	if name == "" && len(c.Input.Columns) == 0 {
		name = schema.NameGA
	}
	return schema.Lookup(name, c.Input.Columns)
}

func (c *Config) Derivations() ([]table.Derivation, error) {
	ds := make([]table.Derivation, 0, len(c.Derived))
	for _, name := range c.Derived {
		d, err := table.LookupDerivation(name)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func (r *Reference) sources() int {
	n := 0
	if r.File != "" {
		n++
	}
	if len(r.Values) > 0 {
		n++
	}
	if r.Default {
		n++
	}
	if r.Database {
		n++
	}
	return n
}
