package config

import (
	"context"
	goerrors "errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-taskconfig/cfgx"
	"github.com/goliatone/go-taskconfig/input"
	"github.com/goliatone/go-taskconfig/logger"
	"github.com/goliatone/go-taskconfig/solvers"
	"github.com/goliatone/go-taskconfig/value"
)

var (
	DefaultDelimiter      = "."
	DefaultConfigFilepath = "config/tasks.json"
	DefaultLoadTimeout    = 30 * time.Second
)

type Validable interface {
	Validate() error
}

type ValidationMode int

const (
	ValidationNone ValidationMode = iota
	ValidationSemantic
)

type Normalizer[C any] func(C) error
type Validator[C any] func(C) error

// Container loads layered configuration into a value tree, resolves it and
// decodes the result into C.
type Container[C Validable] struct {
	base           C
	tree           value.Value
	providers      []Provider
	validationMode ValidationMode
	baseValidate   bool
	failFast       bool
	strictDecode   bool
	normalizers    []Normalizer[C]
	validators     []Validator[C]
	loadTimeout    time.Duration
	configPath     string
	solvers        []solvers.Solver
	solverPasses   int
	asker          input.Asker
	skipInit       bool
	logger         logger.Logger

	loaders []ProviderBuilder[C]

	// loadLogger comes from the context of the running Load.
	loadLogger logger.Logger
}

// WithValidation is a legacy alias for WithValidationMode.
// If both methods are used, last call wins by simple mutation order.
func (c *Container[C]) WithValidation(v bool) *Container[C] {
	if v {
		c.validationMode = ValidationSemantic
	} else {
		c.validationMode = ValidationNone
	}
	return c
}

// WithValidationMode sets semantic validation behavior.
// If both WithValidation and WithValidationMode are used, last call wins.
func (c *Container[C]) WithValidationMode(mode ValidationMode) *Container[C] {
	switch mode {
	case ValidationNone, ValidationSemantic:
		c.validationMode = mode
	default:
		c.validationMode = ValidationSemantic
	}
	return c
}

func (c *Container[C]) WithBaseValidate(enabled bool) *Container[C] {
	c.baseValidate = enabled
	return c
}

func (c *Container[C]) WithFailFast(enabled bool) *Container[C] {
	c.failFast = enabled
	return c
}

func (c *Container[C]) WithStrictDecode(enabled bool) *Container[C] {
	c.strictDecode = enabled
	return c
}

func (c *Container[C]) WithNormalizer(normalizers ...Normalizer[C]) *Container[C] {
	for _, normalizer := range normalizers {
		if normalizer == nil {
			continue
		}
		c.normalizers = append(c.normalizers, normalizer)
	}
	return c
}

func (c *Container[C]) WithValidator(validators ...Validator[C]) *Container[C] {
	for _, validator := range validators {
		if validator == nil {
			continue
		}
		c.validators = append(c.validators, validator)
	}
	return c
}

func (c *Container[C]) WithTimeout(timeout time.Duration) *Container[C] {
	c.loadTimeout = timeout
	return c
}

func (c *Container[C]) WithConfigPath(p string) *Container[C] {
	c.configPath = p
	return c
}

func (c *Container[C]) WithSolver(slvrs ...solvers.Solver) *Container[C] {
	c.solvers = append(c.solvers, slvrs...)
	return c
}

// WithSolvers replaces the solver list, allowing explicit ordering.
func (c *Container[C]) WithSolvers(slvrs ...solvers.Solver) *Container[C] {
	c.solvers = append([]solvers.Solver{}, slvrs...)
	return c
}

// WithSolverPasses sets the maximum number of solver passes (minimum 1).
func (c *Container[C]) WithSolverPasses(passes int) *Container[C] {
	if passes < 1 {
		passes = 1
	}
	c.solverPasses = passes
	return c
}

// WithAsker sets who answers pending inputs. Nil means defaults only.
func (c *Container[C]) WithAsker(a input.Asker) *Container[C] {
	if a == nil {
		a = input.NonInteractive
	}
	c.asker = a
	return c
}

// WithoutInit keeps pending inputs in the tree. Fields decoded from them must
// be value.Value.
func (c *Container[C]) WithoutInit() *Container[C] {
	c.skipInit = true
	return c
}

func (c *Container[C]) WithLogger(l logger.Logger) *Container[C] {
	c.logger = l
	return c
}

func (c *Container[C]) WithProvider(factories ...ProviderBuilder[C]) *Container[C] {
	for _, factory := range factories {
		if factory != nil {
			c.loaders = append(c.loaders, factory)
		}
	}
	return c
}

// New returns a container for c with the default solvers and no logging. Use
// WithLogger, or carry a logger in the Load context, to see load diagnostics.
func New[C Validable](c C) *Container[C] {
	return &Container[C]{
		validationMode: ValidationSemantic,
		baseValidate:   true,
		failFast:       true,
		strictDecode:   false,
		base:           c,
		tree:           value.New(),
		loadTimeout:    DefaultLoadTimeout,
		configPath:     DefaultConfigFilepath,
		asker:          input.NonInteractive,
		solverPasses:   1,
		solvers: []solvers.Solver{
			solvers.NewVariablesSolver("${", "}"),
			solvers.NewURISolver("@", "://"),
			solvers.NewExpressionSolver("{{", "}}"),
		},
	}
}

// NewWithOptions is New followed by opts.
func NewWithOptions[C Validable](c C, opts ...Option[C]) (*Container[C], error) {
	container := New(c)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(container); err != nil {
			return nil, err
		}
	}
	return container, nil
}

func (c *Container[C]) log() logger.Logger {
	switch {
	case c == nil:
		return nopLogger{}
	case c.logger != nil:
		return c.logger
	case c.loadLogger != nil:
		return c.loadLogger
	default:
		return nopLogger{}
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (c *Container[C]) Validate() error {
	if err := c.base.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "configuration validation failed").
			WithTextCode("CONFIG_VALIDATION_FAILED")
	}
	return nil
}

func (c *Container[C]) MustValidate() *Container[C] {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

func (c *Container[C]) MustLoadWithDefaults() {
	c.MustLoad(context.Background())
}

func (c *Container[C]) LoadWithDefaults() error {
	return c.Load(context.Background())
}

func (c *Container[C]) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
}

// Load rebuilds the tree from every provider, lowest priority first, runs the
// solvers, resolves pending inputs and decodes the result into the base value.
// A logger carried by ctx is used for this call when none was configured.
func (c *Container[C]) Load(ctx context.Context) error {
	c.loadLogger = logger.FromContext(ctx, nil)
	defer func() { c.loadLogger = nil }()

	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	if err := c.buildProviders(); err != nil {
		return err
	}

	tree, err := c.loadTree(ctx)
	if err != nil {
		return err
	}

	c.solve(&tree)

	if !c.skipInit {
		c.log().Debug("resolving pending inputs", "interactive", c.asker != nil && c.asker.Interactive())
		if err := tree.Init(c.asker); err != nil {
			meta := map[string]any{}
			var resErr *value.ResolutionError
			if goerrors.As(err, &resErr) {
				meta["path"] = resErr.Path
				meta["kind"] = resErr.Kind.String()
			}
			return errors.Wrap(err, errors.CategoryBadInput, "failed to resolve pending inputs").
				WithTextCode("INPUT_RESOLUTION_FAILED").
				WithMetadata(meta)
		}
	}
	c.tree = tree

	// unmarshal configuration into our base struct via cfgx
	opts := []cfgx.Option[C]{
		cfgx.WithDefaults(c.base),
		cfgx.WithTagName[C](cfgx.DefaultTagName),
	}
	if c.strictDecode {
		opts = append(opts, cfgx.WithDecoder[C](func(conf *mapstructure.DecoderConfig) {
			conf.ErrorUnused = true
		}))
	}
	decoded, err := cfgx.Build[C](tree, opts...)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to unmarshal configuration data").
			WithTextCode("CONFIG_UNMARSHAL_FAILED").
			WithMetadata(map[string]any{
				"strict_decode": c.strictDecode,
			})
	}
	c.assignBase(decoded)

	return c.runValidation()
}

func (c *Container[C]) buildProviders() error {
	c.providers = nil
	for i, factory := range c.loaders {
		provider, err := factory(c)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(c.loaders),
				})
		}
		c.providers = append(c.providers, provider)
	}

	if len(c.providers) == 0 && c.configPath != "" {
		c.log().Debug("no providers specified, loading default file provider...", "config_path", c.configPath)
		f := OptionalProvider(FileProvider[C](c.configPath))
		p, err := f(c)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create default file provider").
				WithTextCode("DEFAULT_PROVIDER_FAILED").
				WithMetadata(map[string]any{
					"config_path": c.configPath,
				})
		}
		c.providers = append(c.providers, p)
	}

	for i, src := range c.providers {
		if err := src.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid provider source type").
				WithTextCode("INVALID_PROVIDER_TYPE").
				WithMetadata(map[string]any{
					"source_type":    string(src.Type()),
					"provider_index": i,
				})
		}
	}

	sort.SliceStable(c.providers, func(i, j int) bool {
		return c.providers[i].Priority() < c.providers[j].Priority()
	})
	return nil
}

// loadTree folds every provider layer into a fresh object. Later layers win.
func (c *Container[C]) loadTree(ctx context.Context) (value.Value, error) {
	tree := value.New()
	for i, source := range c.providers {
		if err := ctx.Err(); err != nil {
			return value.Value{}, errors.Wrap(err, errors.CategoryOperation, "configuration load interrupted").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_index": i,
				})
		}

		c.log().Debug("loading source", "source_type", source.Type().String())
		layer, err := source.Load(ctx)
		if err != nil {
			return value.Value{}, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(source.Type()),
					"source_index":  i,
					"total_sources": len(c.providers),
				})
		}
		if layer.IsNull() {
			continue
		}
		if !layer.IsObject() {
			return value.Value{}, errors.New("configuration root must be an object", errors.CategoryValidation).
				WithTextCode("INVALID_ROOT").
				WithMetadata(map[string]any{
					"source_type":  string(source.Type()),
					"source_index": i,
					"root_kind":    layer.Kind().String(),
				})
		}
		tree.MergeInPlace(layer)
	}
	return tree, nil
}

// solve runs the solvers until a pass leaves the tree unchanged or the pass
// limit is reached.
func (c *Container[C]) solve(tree *value.Value) {
	if len(c.solvers) == 0 {
		return
	}
	maxPasses := c.solverPasses
	if maxPasses < 1 {
		maxPasses = 1
	}
	for pass := 0; pass < maxPasses; pass++ {
		before := tree.Clone()
		for _, solver := range c.solvers {
			solver.Solve(tree)
		}
		if tree.Equal(before) {
			c.log().Debug("solvers settled", "passes", pass+1)
			return
		}
	}
	c.log().Debug("solver pass limit reached", "passes", maxPasses)
}

// Raw returns the decoded configuration.
func (c *Container[C]) Raw() C {
	return c.base
}

// Tree returns a copy of the merged tree from the last Load.
func (c *Container[C]) Tree() value.Value {
	return c.tree.Clone()
}

// Save writes the merged tree to path in the format given by its extension.
func (c *Container[C]) Save(path string) error {
	return SaveTree(path, c.tree)
}

// assignBase copies decoded into the base value. When both are pointers to
// structs only exported fields are copied, so state the decoder cannot see
// survives a reload.
func (c *Container[C]) assignBase(decoded C) {
	baseVal := reflect.ValueOf(&c.base).Elem()
	newVal := reflect.ValueOf(decoded)

	if baseVal.Kind() == reflect.Pointer && newVal.Kind() == reflect.Pointer && baseVal.Type() == newVal.Type() {
		if baseVal.IsNil() || newVal.IsNil() {
			baseVal.Set(newVal)
			return
		}
		dst, src := baseVal.Elem(), newVal.Elem()
		if dst.Kind() != reflect.Struct {
			dst.Set(src)
			return
		}
		for i := 0; i < dst.NumField(); i++ {
			if dst.Type().Field(i).IsExported() {
				dst.Field(i).Set(src.Field(i))
			}
		}
		return
	}
	baseVal.Set(newVal)
}
