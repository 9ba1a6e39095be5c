// SPDX-License-Identifier: MPL-2.0

package project

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/invowk/resxgen/internal/buildprops"
	"github.com/invowk/resxgen/pkg/cueutil"
)

const (
	// CUEFileName is the CUE project file name.
	CUEFileName = "resxgen.cue"
	// TOMLFileName is the TOML project file name.
	TOMLFileName = "resxgen.toml"
)

var (
	//go:embed project_schema.cue
	schema []byte

	// ErrAmbiguous is returned when a directory holds both project file formats.
	ErrAmbiguous = errors.New("both resxgen.cue and resxgen.toml exist")
	// ErrUnsupportedFormat is returned for project files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported project file format")
	// ErrInvalidProject is wrapped by every validation failure.
	ErrInvalidProject = errors.New("invalid project file")
)

type (
	// File is the content of a project file.
	File struct {
		AssemblyName       string            `json:"assembly_name,omitempty" toml:"assembly_name,omitempty"`
		Properties         map[string]string `json:"properties,omitempty" toml:"properties,omitempty"`
		Files              []Rule            `json:"files,omitempty" toml:"files,omitempty"`
		Include            []string          `json:"include,omitempty" toml:"include,omitempty"`
		Exclude            []string          `json:"exclude,omitempty" toml:"exclude,omitempty"`
		OutputDir          string            `json:"output_dir,omitempty" toml:"output_dir,omitempty"`
		NullableAttributes *bool             `json:"nullable_attributes,omitempty" toml:"nullable_attributes,omitempty"`
	}

	// Rule assigns metadata to the resource files matching Pattern.
	Rule struct {
		Pattern  string            `json:"pattern" toml:"pattern"`
		Metadata map[string]string `json:"metadata,omitempty" toml:"metadata,omitempty"`
	}

	// Project is a loaded project file bound to its directory.
	Project struct {
		File

		// Dir is the project directory. Rule patterns and OutputDir are
		// relative to it.
		Dir string
		// Path is the project file that was loaded, or "" when none exists.
		Path string
	}
)

// Find returns the project file in dir, or "" when there is none.
func Find(dir string) (string, error) {
	var found []string
	for _, name := range []string{CUEFileName, TOMLFileName} {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w in %s", ErrAmbiguous, dir)
	}
}

// Load loads the project file found in dir. When dir has no project file the
// returned Project is empty and its Path is "".
func Load(dir string) (*Project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}
	path, err := Find(absDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &Project{Dir: absDir}, nil
	}
	return LoadFile(path)
}

// LoadFile loads the project file at path. The format is chosen by extension
// and the project directory is the file's directory.
func LoadFile(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve project file: %w", err)
	}

	var f *File
	switch filepath.Ext(absPath) {
	case ".cue":
		res, decodeErr := cueutil.DecodeFile[File](schema, absPath, "#Project")
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProject, decodeErr)
		}
		f = res.Value
	case ".toml":
		f, err = decodeTOML(absPath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, absPath)
	}

	return New(filepath.Dir(absPath), absPath, *f)
}

// New validates f and binds it to dir.
func New(dir, path string, f File) (*Project, error) {
	if err := f.Validate(); err != nil {
		if path == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &Project{File: f, Dir: dir, Path: path}, nil
}

func decodeTOML(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filepath.Base(path)); err != nil {
		return nil, err
	}

	var f File
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: %s:%d:%d: %s", ErrInvalidProject, filepath.Base(path), row, col, derr.Error())
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidProject, filepath.Base(path), serr.String())
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProject, filepath.Base(path), err)
	}
	return &f, nil
}

// Validate checks the constraints shared by both file formats. CUE files are
// also checked by the schema; TOML files rely on this alone.
func (f File) Validate() error {
	var errs []error
	for i, r := range f.Files {
		if r.Pattern == "" {
			errs = append(errs, fmt.Errorf("files[%d].pattern: must not be empty", i))
		} else if !doublestar.ValidatePattern(r.Pattern) {
			errs = append(errs, fmt.Errorf("files[%d].pattern: invalid glob %q", i, r.Pattern))
		}
		for _, k := range sortedKeys(r.Metadata) {
			if !isMetadataName(k) {
				errs = append(errs, fmt.Errorf("files[%d].metadata.%s: unknown metadata name", i, k))
			}
		}
	}
	for label, pats := range map[string][]string{"include": f.Include, "exclude": f.Exclude} {
		for i, p := range pats {
			if p == "" || !doublestar.ValidatePattern(p) {
				errs = append(errs, fmt.Errorf("%s[%d]: invalid glob %q", label, i, p))
			}
		}
	}
	if _, ok := f.Properties[""]; ok {
		errs = append(errs, errors.New("properties: empty property name"))
	}
	if len(errs) == 0 {
		return nil
	}
	slices.SortFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return fmt.Errorf("%w: %w", ErrInvalidProject, errors.Join(errs...))
}

// MetadataNames returns the metadata names a rule may set.
func MetadataNames() []string {
	props := buildprops.Properties()
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Name
	}
	return out
}

func isMetadataName(name string) bool {
	return slices.Contains(MetadataNames(), name)
}

// OutputPath returns the absolute output directory, or "" when units are
// written next to their resource files.
func (p *Project) OutputPath() string {
	if p.OutputDir == "" {
		return ""
	}
	if filepath.IsAbs(p.OutputDir) {
		return filepath.Clean(p.OutputDir)
	}
	return filepath.Join(p.Dir, p.OutputDir)
}

// NullableAttributesOr returns the configured nullable_attributes value, or
// def when the project file does not set it.
func (p *Project) NullableAttributesOr(def bool) bool {
	if p.NullableAttributes == nil {
		return def
	}
	return *p.NullableAttributes
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
