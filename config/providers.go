package config

import (
	"context"
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-taskconfig/koanf/providers/env"
	"github.com/goliatone/go-taskconfig/value"
)

// ProviderBuilder creates a Provider once the container is configured.
type ProviderBuilder[C Validable] func(*Container[C]) (Provider, error)

type ProviderType string

// Provider produces one configuration layer. Load returns Null when the layer
// has nothing to contribute, otherwise an object.
type Provider interface {
	Type() ProviderType
	Priority() int
	Validate() error
	Load(context.Context) (value.Value, error)
}

type Loader struct {
	order        int
	providerType ProviderType
	load         func(context.Context) (value.Value, error)
}

func (l *Loader) Priority() int {
	return l.order
}

func (l *Loader) Type() ProviderType {
	return l.providerType
}

func (l *Loader) Load(ctx context.Context) (value.Value, error) {
	return l.load(ctx)
}

func (l *Loader) Validate() error {
	return l.providerType.validate()
}

const (
	ProviderTypeDefault   ProviderType = "default"
	ProviderTypeLocalFile ProviderType = "file"
	ProviderTypeProfile   ProviderType = "profile"
	ProviderTypeEnv       ProviderType = "env"
	ProviderTypeFlag      ProviderType = "pflag"
	ProviderTypeStruct    ProviderType = "struct"
	ProviderTypeValue     ProviderType = "value"
)

type Priority int

// container.WithProvider(FileProvider[C]("tasks.json", PriorityConfig.WithOffset(-10))) // 10
// container.WithProvider(FileProvider[C]("local.json", PriorityConfig.WithOffset(2)))   // 22
func (p Priority) WithOffset(offset int) int {
	return int(p) + offset
}

var (
	PriorityDefaults Priority = 0
	PriorityStruct   Priority = 10
	PriorityConfig   Priority = 20
	PriorityProfile  Priority = 25
	PriorityEnv      Priority = 30
	PriorityFlags    Priority = 40
)

var (
	DefaultEnvPrefix    = "TASKS_"
	DefaultEnvDelimiter = "__" // so we can have composed_words
)

func (s ProviderType) String() string {
	return string(s)
}

func (p ProviderType) validate() error {
	switch p {
	case ProviderTypeDefault, ProviderTypeLocalFile, ProviderTypeProfile, ProviderTypeEnv,
		ProviderTypeFlag, ProviderTypeStruct, ProviderTypeValue:
		return nil
	default:
		return errors.New("invalid loader type", errors.CategoryValidation).
			WithTextCode("INVALID_LOADER_TYPE").
			WithMetadata(map[string]any{
				"loader_type": string(p),
				"valid_types": []string{
					string(ProviderTypeDefault),
					string(ProviderTypeLocalFile),
					string(ProviderTypeProfile),
					string(ProviderTypeEnv),
					string(ProviderTypeFlag),
					string(ProviderTypeStruct),
					string(ProviderTypeValue),
				},
			})
	}
}

// readKoanf loads a koanf provider, through parser when one is given.
func readKoanf(p koanf.Provider, parser koanf.Parser) (value.Value, error) {
	if parser == nil {
		m, err := p.Read()
		if err != nil {
			return value.Value{}, err
		}
		return value.FromNative(m)
	}
	b, err := p.ReadBytes()
	if err != nil {
		return value.Value{}, err
	}
	m, err := parser.Unmarshal(b)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromNative(m)
}

// DefaultValuesProvider loads a map. Dotted keys such as "stage.name" are
// expanded into nested objects.
func DefaultValuesProvider[C Validable](def map[string]any, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		kprovider := confmap.Provider(def, DefaultDelimiter)

		prv := &Loader{
			providerType: ProviderTypeDefault,
			order:        getOrder(PriorityDefaults, order...),
			load: func(ctx context.Context) (value.Value, error) {
				c.log().Debug("default values provider", "values_count", len(def))
				v, err := readKoanf(kprovider, nil)
				if err != nil {
					return value.Value{}, errors.Wrap(err, errors.CategoryOperation, "failed to load default values").
						WithTextCode("DEFAULT_VALUES_LOAD_FAILED").
						WithMetadata(map[string]any{
							"values_count": len(def),
						})
				}
				return v, nil
			},
		}

		return prv, nil
	}
}

// ValueProvider loads a copy of a tree. Pending inputs in v stay pending until
// the container resolves them.
func ValueProvider[C Validable](v value.Value, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		prv := &Loader{
			providerType: ProviderTypeValue,
			order:        getOrder(PriorityDefaults, order...),
			load: func(ctx context.Context) (value.Value, error) {
				c.log().Debug("value provider", "kind", v.Kind().String())
				return v.Clone(), nil
			},
		}
		return prv, nil
	}
}

// FileProvider loads a file whose format is inferred from its extension.
func FileProvider[C Validable](filepath string, orders ...int) ProviderBuilder[C] {
	return fileProvider[C](ProviderTypeLocalFile, filepath, InferFormat(filepath), getOrder(PriorityConfig, orders...))
}

// FileProviderWithFormat loads a file in an explicit format.
func FileProviderWithFormat[C Validable](filepath string, format Format, orders ...int) ProviderBuilder[C] {
	return fileProvider[C](ProviderTypeLocalFile, filepath, format, getOrder(PriorityConfig, orders...))
}

// ProfileProvider loads the profile variant of the container config path, so
// profile "daily" next to config/tasks.json reads config/tasks.daily.json.
func ProfileProvider[C Validable](profile string, orders ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		if profile == "" || c.configPath == "" {
			return &Loader{}, errors.New("profile needs a name and a config path", errors.CategoryBadInput).
				WithTextCode("INVALID_PROFILE").
				WithMetadata(map[string]any{
					"profile":     profile,
					"config_path": c.configPath,
				})
		}
		path := ProfilePath(c.configPath, profile)
		build := fileProvider[C](ProviderTypeProfile, path, InferFormat(path), getOrder(PriorityProfile, orders...))
		return build(c)
	}
}

// ProfilePath inserts profile before the extension of path.
func ProfilePath(path, profile string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + profile + ext
}

func fileProvider[C Validable](kind ProviderType, path string, format Format, order int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		if err := format.Valid(); err != nil {
			return &Loader{}, err
		}
		kprovider := file.Provider(path)

		p := &Loader{
			providerType: kind,
			order:        order,
			load: func(ctx context.Context) (value.Value, error) {
				c.log().Debug("file provider", "filepath", path, "format", format.String())
				data, err := kprovider.ReadBytes()
				if err == nil {
					var v value.Value
					if v, err = format.Decode(data); err == nil {
						return v, nil
					}
				}
				return value.Value{}, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from file").
					WithTextCode("FILE_LOAD_FAILED").
					WithMetadata(map[string]any{
						"filepath":  path,
						"file_type": string(format),
					})
			},
		}
		return p, nil
	}
}

// EnvProvider reads variables starting with prefix. The prefix is stripped,
// names are lowercased and delim separates levels, so with "TASKS_" and "__"
// TASKS_TASKS__0__PARAMS__STAGE=CE-6 sets tasks.0.params.stage. Values are typed
// with env.InferScalar.
func EnvProvider[C Validable](prefix, delim string, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		kprov := env.ProviderWithValue(prefix, ".", env.Inferred(func(s string) string {
			return strings.Replace(strings.ToLower(
				strings.TrimPrefix(s, prefix)), strings.ToLower(delim), ".", -1)
		}))

		prv := &Loader{
			providerType: ProviderTypeEnv,
			order:        getOrder(PriorityEnv, order...),
			load: func(ctx context.Context) (value.Value, error) {
				c.log().Debug("env provider", "prefix", prefix)
				v, err := readKoanf(kprov, FormatJSON.Parser())
				if err != nil {
					return value.Value{}, errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix":    prefix,
							"delimiter": delim,
						})
				}
				if v.Len() == 0 {
					return value.Null(), nil
				}
				return v, nil
			},
		}

		return prv, nil
	}
}

// FlagsProvider loads the flags that were set on the command line. Flag names
// use dots for nesting, e.g. --stage.name. Unchanged flags are skipped so
// their defaults never shadow lower layers.
func FlagsProvider[C Validable](flagset *pflag.FlagSet, order ...int) ProviderBuilder[C] {
	return func(c *Container[C]) (Provider, error) {
		if flagset == nil {
			return &Loader{}, errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET")
		}

		prv := &Loader{
			providerType: ProviderTypeFlag,
			order:        getOrder(PriorityFlags, order...),
			load: func(ctx context.Context) (value.Value, error) {
				c.log().Debug("flags provider")
				kprov := posflag.ProviderWithFlag(flagset, DefaultDelimiter, nil, func(f *pflag.Flag) (string, any) {
					if !f.Changed {
						return "", nil
					}
					return f.Name, posflag.FlagVal(flagset, f)
				})
				v, err := readKoanf(kprov, nil)
				if err != nil {
					return value.Value{}, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from posix flags").
						WithTextCode("FLAGS_LOAD_FAILED").
						WithMetadata(map[string]any{
							"delimiter": DefaultDelimiter,
						})
				}
				if v.Len() == 0 {
					return value.Null(), nil
				}
				return v, nil
			},
		}

		return prv, nil
	}
}

// StructProvider loads the exported fields of v using their koanf tags.
func StructProvider[C Validable](v Validable, order ...int) ProviderBuilder[C] {
	if v == nil {
		return func(c *Container[C]) (Provider, error) {
			return &Loader{}, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}
	}

	return func(c *Container[C]) (Provider, error) {
		kprv := structs.Provider(v, "koanf")

		prv := &Loader{
			providerType: ProviderTypeStruct,
			order:        getOrder(PriorityStruct, order...),
			load: func(ctx context.Context) (value.Value, error) {
				c.log().Debug("struct provider")
				out, err := readKoanf(kprv, nil)
				if err != nil {
					return value.Value{}, errors.Wrap(err,
						errors.CategoryOperation,
						"failed to load configuration from struct",
					).
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return out, nil
			},
		}
		return prv, nil
	}
}

type ErrorFilter func(err error) bool

func DefaultErrorFilter(allowedErrors ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}

		if len(allowedErrors) == 0 {
			// ignore absent files but surface other errors i.e. JSON parsing blow up
			return goerrors.Is(err, os.ErrNotExist) || goerrors.Is(err, syscall.ENOENT)
		}

		for _, allowed := range allowedErrors {
			if goerrors.Is(err, allowed) {
				return true
			}
		}

		return false
	}
}

// OptionalProvider wraps a provider so that some errors
// as defined by errIgnore are ignored
func OptionalProvider[C Validable](f ProviderBuilder[C], errIgnoreFuncs ...ErrorFilter) ProviderBuilder[C] {
	// pick the default error filter if none provided
	errIgnore := DefaultErrorFilter()
	if len(errIgnoreFuncs) > 0 {
		errIgnore = errIgnoreFuncs[0]
	}

	return func(c *Container[C]) (Provider, error) {
		baseProvider, err := f(c)
		if err != nil {
			return &Loader{}, err
		}

		p := &Loader{
			providerType: baseProvider.Type(),
			order:        getOrder(PriorityDefaults, baseProvider.Priority()),
			load: func(ctx context.Context) (value.Value, error) {
				v, err := baseProvider.Load(ctx)
				if err == nil {
					return v, nil
				}
				if errIgnore(err) {
					c.log().Debug("optional provider skipped", "source_type", baseProvider.Type().String(), "error", err)
					return value.Null(), nil
				}
				return value.Value{}, err
			},
		}
		return p, nil
	}
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}
