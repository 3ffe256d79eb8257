package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Source formats.
const (
	FormatYAML  = "yaml"
	FormatJSONC = "jsonc"
	FormatCUE   = "cue"
)

//go:embed schema.cue
var schemaSource string

// FormatForPath picks the source format from a file extension.
// Plain JSON is read as JSONC.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported project file extension %q (want .yaml, .yml, .json, .jsonc or .cue)", filepath.Ext(path))
	}
}

// LoadFile loads a project from path. A directory is loaded as a CUE
// package.
func LoadFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if info.IsDir() {
		f, err := loadCUEDir(path)
		if err != nil {
			return nil, err
		}
		f.Source = path
		return f, nil
	}

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	f, err := decode(data, format, path)
	if err != nil {
		return nil, err
	}
	f.Source = path
	return f, nil
}

// Load decodes a project from data in the named format.
// Unknown fields are rejected in every format.
func Load(data []byte, format string) (*File, error) {
	return decode(data, strings.ToLower(format), "")
}

func decode(data []byte, format, filename string) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode yaml project: %w", err)
		}
	case FormatJSONC, "json":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode jsonc project: %w", err)
		}
	case FormatCUE:
		ctx := cuecontext.New()
		var opts []cue.BuildOption
		if filename != "" {
			opts = append(opts, cue.Filename(filename))
		}
		v := ctx.CompileBytes(data, opts...)
		if err := decodeCUE(ctx, v, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported project format %q", format)
	}
	return &f, nil
}

// loadCUEDir loads the CUE package in dir.
func loadCUEDir(dir string) (*File, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	var f File
	if err := decodeCUE(ctx, ctx.BuildInstance(inst), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// decodeCUE unifies v with the project schema and decodes it into f.
func decodeCUE(ctx *cue.Context, v cue.Value, f *File) error {
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("project schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Project")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	if err := unified.Decode(f); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// FindCUEFiles walks dir and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
