package lintconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// authorizationCatalogueSchema constrains an external authorization-code
// catalogue file to a flat, non-empty array of unique, non-blank strings
// before its contents are trusted (spec.md §9 Open Question).
var authorizationCatalogueSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"codes": map[string]any{
			"type":        "array",
			"minItems":    1,
			"uniqueItems": true,
			"items": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
	},
	"required": []any{"codes"},
}

type authorizationCatalogueFile struct {
	Codes []string `json:"codes" toml:"codes"`
}

// LoadAuthorizationCatalogue reads and validates an external
// process-authorization code catalogue file (TOML or JSON, by extension)
// and returns the recognised codes as a set.
func LoadAuthorizationCatalogue(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lintconfig: read authorization catalogue %s: %w", path, err)
	}

	var asJSON map[string]any
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &asJSON); err != nil {
			return nil, fmt.Errorf("lintconfig: parse authorization catalogue %s: %w", path, err)
		}
	} else {
		parsed, err := tomlparser.Parser().Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("lintconfig: parse authorization catalogue %s: %w", path, err)
		}
		asJSON = parsed
	}

	if err := validateAuthorizationCatalogue(asJSON); err != nil {
		return nil, fmt.Errorf("lintconfig: authorization catalogue %s failed validation: %w", path, err)
	}

	var typed authorizationCatalogueFile
	roundTripped, err := json.Marshal(asJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(roundTripped, &typed); err != nil {
		return nil, err
	}

	return toSet(typed.Codes), nil
}

func validateAuthorizationCatalogue(value map[string]any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("authorization-catalogue.json", authorizationCatalogueSchema); err != nil {
		return err
	}
	sch, err := compiler.Compile("authorization-catalogue.json")
	if err != nil {
		return err
	}
	return sch.Validate(value)
}
