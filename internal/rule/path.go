package rule

import (
	"reflect"

	"github.com/spf13/afero"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
)

// ExistingPath requires a path to exist and be a non-directory or, with
// ExpectDirectory(true), a directory. Devices, pipes and sockets count as
// non-directories.
type ExistingPath struct {
	opts options
}

// NewExistingPath returns a rule that stats the target path on the
// configured filesystem (the OS filesystem unless WithFs is given).
func NewExistingPath(opts ...Option) (*ExistingPath, error) {
	return &ExistingPath{opts: newOptions(opts)}, nil
}

func (r *ExistingPath) Kind() Kind { return KindExistingPath }

// Directory reports whether the rule expects a directory.
func (r *ExistingPath) Directory() bool { return r.opts.directory }

// Evaluate accepts text paths, named string types, *string, and open file
// handles (afero.File, which *os.File satisfies).
func (r *ExistingPath) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	path, ok := pathOf(target)
	if !ok {
		return Outcome{}, configError(KindExistingPath, "",
			errors.Newf("%T is not a path", target), "bind existing_path to a string attribute")
	}

	info, err := r.opts.fs.Stat(path)
	switch {
	case err != nil:
		return Fail(r.opts.render("File does not exist", "path", path)), nil
	case r.opts.directory == info.IsDir():
		return Pass(), nil
	case r.opts.directory:
		return Fail(r.opts.render("File is not a directory", "path", path)), nil
	default:
		return Fail(r.opts.render("File is not a regular file", "path", path)), nil
	}
}

func pathOf(v any) (string, bool) {
	if f, ok := v.(afero.File); ok {
		return f.Name(), true
	}
	rv := reflect.ValueOf(attr.Indirect(v))
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
