package solvers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	_ "go.beyondstorage.io/services/fs/v4"
	"go.beyondstorage.io/v5/services"
	"go.beyondstorage.io/v5/types"

	"github.com/goliatone/go-taskconfig/value"
)

// StorageReader is the part of a beyondstorage Storager the storage protocol needs.
type StorageReader interface {
	ReadWithContext(ctx context.Context, path string, w io.Writer, pairs ...types.Pair) (int64, error)
}

// URIOption configures a URI solver.
type URIOption func(*uris)

// WithStorageOpener replaces how @storage:// connection strings are opened.
func WithStorageOpener(open func(conn string) (StorageReader, error)) URIOption {
	return func(u *uris) {
		if open != nil {
			u.newStorager = open
		}
	}
}

// WithURIOnErrorRemove deletes keys whose URI could not be resolved instead of
// leaving the raw string in place.
func WithURIOnErrorRemove() URIOption {
	return func(u *uris) {
		u.removeOnError = true
	}
}

// WithContext sets the context used for storage reads.
func WithContext(ctx context.Context) URIOption {
	return func(u *uris) {
		if ctx != nil {
			u.ctx = ctx
		}
	}
}

type uris struct {
	fs          fs.FS
	ctx         context.Context
	delimiters  *delimiters
	newStorager func(conn string) (StorageReader, error)
	storagers   map[string]StorageReader
	contents    map[string]string

	removeOnError bool
}

// NewURISolver resolves strings that are exactly one URI such as
// @file://params/fight.txt or @base64://MS03. Files are read relative to the
// working directory.
func NewURISolver(s, e string) Solver {
	return NewURISolverWithFS(s, e, os.DirFS("."))
}

// NewURISolverWithOptions is NewURISolver with options.
func NewURISolverWithOptions(s, e string, opts ...URIOption) Solver {
	return NewURISolverWithFSAndOptions(s, e, os.DirFS("."), opts...)
}

// NewURISolverWithFS reads @file:// URIs from f.
func NewURISolverWithFS(s, e string, f fs.FS) Solver {
	return NewURISolverWithFSAndOptions(s, e, f)
}

// NewURISolverWithFSAndOptions is NewURISolverWithFS with options. Besides file
// and base64 it understands @storage://<connection>#<path>, where connection is
// a beyondstorage connection string such as fs:///var/lib/tasks. Storagers are
// opened once per connection and each URI is read once per solver.
func NewURISolverWithFSAndOptions(s, e string, f fs.FS, opts ...URIOption) Solver {
	u := &uris{
		fs:  f,
		ctx: context.Background(),
		delimiters: &delimiters{
			Start: s,
			End:   e,
		},
		newStorager: openStorager,
		storagers:   map[string]StorageReader{},
		contents:    map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// Solve rewrites root in place. URIs that cannot be resolved are left as they
// are unless WithURIOnErrorRemove was given.
func (s *uris) Solve(root *value.Value) {
	if root == nil {
		return
	}
	var failed []string
	eachString(root, func(path string, val string, node *value.Value) {
		content, matched, err := s.resolve(val)
		switch {
		case !matched:
		case err != nil:
			failed = append(failed, path)
		default:
			*node = value.String(content)
		}
	})
	if !s.removeOnError {
		return
	}
	for i := len(failed) - 1; i >= 0; i-- {
		root.Remove(failed[i])
	}
}

func (s *uris) resolve(val string) (string, bool, error) {
	if !strings.HasPrefix(val, s.delimiters.Start) {
		return "", false, nil
	}
	rest := val[len(s.delimiters.Start):]
	end := strings.Index(rest, s.delimiters.End)
	if end == -1 {
		return "", false, nil
	}
	protocol := rest[:end]
	uri := rest[end+len(s.delimiters.End):]

	var (
		content string
		err     error
	)
	switch protocol {
	case "file":
		content, err = SolveFileProtocol(s.fs, uri)
	case "base64":
		content, err = SolveBase64DecodeProtocol(s.fs, uri)
	case "storage":
		content, err = s.solveStorage(uri)
	default:
		return "", false, nil
	}
	return content, true, err
}

func (s *uris) solveStorage(uri string) (string, error) {
	if content, ok := s.contents[uri]; ok {
		return content, nil
	}
	idx := strings.LastIndex(uri, "#")
	if idx <= 0 || idx == len(uri)-1 {
		return "", fmt.Errorf("solvers: storage uri %q needs <connection>#<path>", uri)
	}
	conn, path := uri[:idx], uri[idx+1:]

	store, ok := s.storagers[conn]
	if !ok {
		var err error
		store, err = s.newStorager(conn)
		if err != nil {
			return "", err
		}
		s.storagers[conn] = store
	}

	var buf bytes.Buffer
	if _, err := store.ReadWithContext(s.ctx, path, &buf); err != nil {
		return "", err
	}
	content := strings.TrimRight(buf.String(), "\n")
	s.contents[uri] = content
	return content, nil
}

func openStorager(conn string) (StorageReader, error) {
	return services.NewStoragerFromString(conn)
}

// SolveFileProtocol returns the content of uri in f without trailing newlines.
// Paths must be valid fs.FS paths, so absolute paths and .. are rejected.
func SolveFileProtocol(f fs.FS, uri string) (string, error) {
	b, err := fs.ReadFile(f, uri)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

// SolveBase64DecodeProtocol decodes standard base64.
func SolveBase64DecodeProtocol(_ fs.FS, uri string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
