package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/trackbake/internal/project"
)

// LoadMode controls how errors are handled during project loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// maxConcurrentLoads bounds the number of project files read at once.
const maxConcurrentLoads = 8

// LoadError represents a project file that could not be loaded.
type LoadError struct {
	Path    string
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Path, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadedFile is one parsed project file.
type LoadedFile struct {
	Path string
	File *project.File
}

// LoadProjects parses paths concurrently. Loaded files keep the order of
// paths; entries for files that failed are nil.
//
// In LoadModeFailFast the first failure (by path order) is the only error
// returned and the loaded slice is nil. In LoadModeCollectAll every
// failure is returned, in path order.
func LoadProjects(ctx context.Context, paths []string, mode LoadMode) ([]*LoadedFile, []error) {
	loaded := make([]*LoadedFile, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := loadProject(path)
			if err != nil {
				errs[i] = err
				if mode == LoadModeFailFast {
					return err
				}
				return nil
			}
			loaded[i] = &LoadedFile{Path: path, File: f}
			return nil
		})
	}

	waitErr := g.Wait()

	var out []error
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	if mode == LoadModeFailFast && waitErr != nil {
		if len(out) > 0 {
			return nil, out[:1]
		}
		return nil, []error{waitErr}
	}
	return loaded, out
}

func loadProject(path string) (*project.File, error) {
	f, err := project.LoadFile(path)
	if err != nil {
		code := ErrCodeLoadFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return nil, &LoadError{Path: path, Code: code, Message: "failed to load project", Err: err}
	}
	return f, nil
}

// compileProject loads and compiles a single project file.
func compileProject(ctx context.Context, path string) (*project.Project, *LoadError) {
	loaded, errs := LoadProjects(ctx, []string{path}, LoadModeFailFast)
	if len(errs) > 0 {
		var loadErr *LoadError
		if errors.As(errs[0], &loadErr) {
			return nil, loadErr
		}
		return nil, &LoadError{Path: path, Code: ErrCodeGeneric, Message: "failed to load project", Err: errs[0]}
	}
	p, err := project.Compile(loaded[0].File)
	if err != nil {
		return nil, &LoadError{Path: path, Code: ErrCodeInvalidProject, Message: "invalid project", Err: err}
	}
	return p, nil
}
