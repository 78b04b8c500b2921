package scenario

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

// Format is a scenario file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat,
			"%s: unknown scenario extension (want .toml, .yaml, .yml or .hcl)", path)
	}
}

// Load reads, parses and validates a scenario file. A missing name defaults
// to the file's base name.
func Load(path string) (*Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "scenario %s", path)
	}
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data, format, path)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
// The filename is only used in error messages.
func Parse(data []byte, format Format, filename string) (*Scenario, error) {
	var (
		sc  *Scenario
		err error
	)
	switch format {
	case FormatTOML:
		sc, err = parseTOML(data)
	case FormatYAML:
		sc, err = parseYAML(data)
	case FormatHCL:
		sc, err = parseHCL(data, filename)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown scenario format %q", format)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScenario, err, "parse %s", filename)
	}
	if err := sc.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScenario, err, "%s", filename)
	}
	return sc, nil
}

func parseTOML(data []byte) (*Scenario, error) {
	var sc Scenario
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, errs.New(errs.ErrCodeInvalidScenario, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &sc, nil
}

func parseYAML(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && err != io.EOF {
		return nil, err
	}
	return &sc, nil
}

// Encode writes a scenario as TOML or YAML.
func Encode(w io.Writer, sc *Scenario, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(sc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errs.New(errs.ErrCodeUnsupported, "cannot encode scenarios as %s", format)
	}
}

// Save writes a scenario to path in the format of its extension.
func Save(path string, sc *Scenario) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, sc, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
