package rules

import (
	"os"
	"path/filepath"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"aderencia/internal/common"
)

// Manifest describes where the three rule tables live and how their physical
// columns map to logical roles. It is the only place column names appear;
// nothing downstream re-resolves them per row.
type Manifest struct {
	Synonyms  []string        `yaml:"synonyms"`
	Nature    SourceConfig    `yaml:"nature"`
	Activity  SourceConfig    `yaml:"activity"`
	Exception ExceptionSource `yaml:"exception"`
}

// SourceConfig locates a nature or activity table and its column mapping.
type SourceConfig struct {
	Path    string      `yaml:"path"`
	Columns RuleColumns `yaml:"columns"`
}

// ExceptionSource locates the CNPJ exception table and its column mapping.
type ExceptionSource struct {
	Path    string           `yaml:"path"`
	Columns ExceptionColumns `yaml:"columns"`
}

// manifestSchema is validated before the manifest is trusted, so a malformed
// mapping is reported as a configuration error up front rather than as a
// confusing lookup miss later.
const manifestSchema = `{
  "type": "object",
  "required": ["nature", "activity", "exception"],
  "properties": {
    "synonyms": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "nature": {"$ref": "#/$defs/ruleSource"},
    "activity": {"$ref": "#/$defs/ruleSource"},
    "exception": {
      "type": "object",
      "required": ["path", "columns"],
      "properties": {
        "path": {"type": "string", "minLength": 1},
        "columns": {
          "type": "object",
          "required": ["tax_id", "result"],
          "properties": {
            "tax_id": {"type": "string", "minLength": 1},
            "result": {"type": "string", "minLength": 1},
            "activity": {"type": "string"}
          }
        }
      }
    }
  },
  "$defs": {
    "ruleSource": {
      "type": "object",
      "required": ["path", "columns"],
      "properties": {
        "path": {"type": "string", "minLength": 1},
        "columns": {
          "type": "object",
          "required": ["code", "rule"],
          "properties": {
            "code": {"type": "string", "minLength": 1},
            "rule": {"type": "string", "minLength": 1},
            "note": {"type": "string"}
          }
        }
      }
    }
  }
}`

var compiledManifestSchema = jsonschema.MustCompileString("manifest.schema.json", manifestSchema)

// LoadManifest reads and validates a YAML ruleset manifest. Relative table
// paths are resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewConfigError("cannot read ruleset manifest "+path, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, common.NewConfigError("cannot parse ruleset manifest "+path, err)
	}
	if err := compiledManifestSchema.Validate(doc); err != nil {
		return nil, common.NewConfigError("invalid ruleset manifest "+path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, common.NewConfigError("cannot parse ruleset manifest "+path, err)
	}

	base := filepath.Dir(path)
	m.Nature.Path = resolvePath(base, m.Nature.Path)
	m.Activity.Path = resolvePath(base, m.Activity.Path)
	m.Exception.Path = resolvePath(base, m.Exception.Path)
	return &m, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// LoadRuleset loads the manifest at path, then all three tables, resolving
// and validating every column mapping. Any failure here blocks evaluation
// entirely; the engine is never invoked with an incompletely-mapped table.
func LoadRuleset(path string) (*Ruleset, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return BuildRuleset(m)
}

// BuildRuleset loads and binds the tables referenced by an already-validated
// manifest.
func BuildRuleset(m *Manifest) (*Ruleset, error) {
	natureTable, err := LoadTable(m.Nature.Path)
	if err != nil {
		return nil, common.WrapError(err, "nature table")
	}
	activityTable, err := LoadTable(m.Activity.Path)
	if err != nil {
		return nil, common.WrapError(err, "activity table")
	}
	exceptionTable, err := LoadTable(m.Exception.Path)
	if err != nil {
		return nil, common.WrapError(err, "exception table")
	}

	nature, err := NewRuleTable(natureTable, m.Nature.Columns)
	if err != nil {
		return nil, err
	}
	activity, err := NewRuleTable(activityTable, m.Activity.Columns)
	if err != nil {
		return nil, err
	}
	exception, err := NewExceptionTable(exceptionTable, m.Exception.Columns)
	if err != nil {
		return nil, err
	}

	synonyms := m.Synonyms
	if len(synonyms) == 0 {
		synonyms = DefaultSynonyms
	}

	return &Ruleset{
		Nature:    nature,
		Activity:  activity,
		Exception: exception,
		Synonyms:  synonyms,
		LoadedAt:  time.Now().UTC(),
	}, nil
}
