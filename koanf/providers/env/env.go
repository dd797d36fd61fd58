// Package env reads environment variables into a nested JSON document.
//
// Keys are split on a delimiter and numeric segments create arrays:
//
//	APP_TASKS__0__NAME=Fight
//	APP_TASKS__0__PARAMS__STAGE=1-7
//	APP_TASKS__1__NAME=Mall
//
// becomes {"tasks":[{"name":"Fight","params":{"stage":"1-7"}},{"name":"Mall"}]}
// once the callback strips the prefix and lowercases the key.
package env

import (
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// ErrReadUnsupported is returned by Read; the provider only produces bytes.
var ErrReadUnsupported = errors.New("env provider does not support this method")

// Env implements koanf.Provider over the process environment.
type Env struct {
	prefix string
	delim  string
	cb     func(key string, value string) (string, any)
}

// Provider returns an environment provider. If prefix is set (case-sensitive),
// only variables starting with it are read. delim separates nesting levels in
// the variable name. cb optionally rewrites the variable name, for instance to
// strip the prefix and lowercase it; an empty result skips the variable.
// Values are kept as strings.
func Provider(prefix, delim string, cb func(s string) string) *Env {
	e := &Env{
		prefix: prefix,
		delim:  delim,
	}
	if cb != nil {
		e.cb = func(key string, value string) (string, any) {
			return cb(key), value
		}
	}
	return e
}

// ProviderWithValue works like Provider but the callback sees the value too and
// may return any JSON encodable value in place of the raw string.
func ProviderWithValue(prefix, delim string, cb func(key string, value string) (string, any)) *Env {
	return &Env{
		prefix: prefix,
		delim:  delim,
		cb:     cb,
	}
}

// Inferred adapts a key callback so values are typed with InferScalar.
func Inferred(cb func(s string) string) func(key string, value string) (string, any) {
	return func(key string, value string) (string, any) {
		if cb != nil {
			key = cb(key)
		}
		return key, InferScalar(value)
	}
}

// InferScalar types an environment value: true and false become bools, integer
// literals int64, decimal literals float64, anything else stays a string.
func InferScalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.ContainsAny(s, ".eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "nN") {
			return f
		}
	}
	return s
}

// ReadBytes builds a fresh JSON document from the current environment. Variables
// are applied in sorted order so array indexes fill up predictably.
func (e *Env) ReadBytes() ([]byte, error) {
	var pairs []string
	for _, kv := range os.Environ() {
		if e.prefix == "" || strings.HasPrefix(kv, e.prefix) {
			pairs = append(pairs, kv)
		}
	}
	sort.Strings(pairs)

	out := "{}"
	for _, kv := range pairs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}

		var (
			key string
			val any
		)
		if e.cb != nil {
			key, val = e.cb(parts[0], parts[1])
			if key == "" {
				continue
			}
		} else {
			key, val = parts[0], parts[1]
		}

		path := key
		if e.delim != "" {
			path = strings.ReplaceAll(key, e.delim, ".")
		}
		next, err := sjson.Set(out, path, val)
		if err != nil {
			return nil, err
		}
		out = next
	}

	return []byte(out), nil
}

// Read is not supported.
func (e *Env) Read() (map[string]any, error) {
	return nil, ErrReadUnsupported
}
