package config

import (
	"time"

	"github.com/goliatone/go-taskconfig/input"
	"github.com/goliatone/go-taskconfig/logger"
	"github.com/goliatone/go-taskconfig/solvers"
)

// Option configures a Container created with NewWithOptions.
type Option[C Validable] func(c *Container[C]) error

func WithValidation[C Validable](v bool) Option[C] {
	return func(c *Container[C]) error {
		c.WithValidation(v)
		return nil
	}
}

func WithConfigPath[C Validable](p string) Option[C] {
	return func(c *Container[C]) error {
		c.configPath = p
		return nil
	}
}

func WithoutDefaultConfigPath[C Validable]() Option[C] {
	return WithConfigPath[C]("")
}

func WithSolver[C Validable](srcs ...solvers.Solver) Option[C] {
	return func(c *Container[C]) error {
		c.solvers = append(c.solvers, srcs...)
		return nil
	}
}

func WithSolverPasses[C Validable](passes int) Option[C] {
	return func(c *Container[C]) error {
		c.WithSolverPasses(passes)
		return nil
	}
}

func WithProvider[C Validable](factories ...ProviderBuilder[C]) Option[C] {
	return func(c *Container[C]) error {
		c.WithProvider(factories...)
		return nil
	}
}

func WithAsker[C Validable](a input.Asker) Option[C] {
	return func(c *Container[C]) error {
		c.WithAsker(a)
		return nil
	}
}

func WithoutInit[C Validable]() Option[C] {
	return func(c *Container[C]) error {
		c.skipInit = true
		return nil
	}
}

func WithTimeout[C Validable](timeout time.Duration) Option[C] {
	return func(c *Container[C]) error {
		c.loadTimeout = timeout
		return nil
	}
}

func WithLogger[C Validable](logger logger.Logger) Option[C] {
	return func(c *Container[C]) error {
		c.logger = logger
		return nil
	}
}
