package cfgx

import (
	"fmt"

	"github.com/goliatone/go-taskconfig/input"
	"github.com/goliatone/go-taskconfig/value"
)

// Preprocessor functions transform raw input before decoding begins.
type Preprocessor func(any) (any, error)

// PreprocessMerge deep merges the provided sources over the input. Sources can be
// value trees, maps or structs; later sources override earlier ones. Objects merge
// key by key while arrays and scalars are replaced, the same rules value.Merge
// applies to configuration layers.
func PreprocessMerge(sources ...any) Preprocessor {
	return func(in any) (any, error) {
		base, err := toValue(in)
		if err != nil {
			return nil, err
		}
		if base.IsNull() {
			base = value.New()
		}
		for idx, src := range sources {
			if src == nil {
				continue
			}
			overlay, err := toValue(src)
			if err != nil {
				return nil, fmt.Errorf("cfgx: merge source %d: %w", idx, err)
			}
			base.MergeInPlace(overlay)
		}
		return base.ToNative(), nil
	}
}

// PreprocessDefaults merges the input over a copy of tree. A null input yields
// the tree alone.
func PreprocessDefaults(tree value.Value) Preprocessor {
	return func(in any) (any, error) {
		overlay, err := toValue(in)
		if err != nil {
			return nil, err
		}
		out := tree.Clone()
		if !overlay.IsNull() {
			out.MergeInPlace(overlay)
		}
		return out.ToNative(), nil
	}
}

// PreprocessInit resolves every pending input in the data through a, so the
// decoded struct only sees literal values. A nil Asker uses defaults only.
func PreprocessInit(a input.Asker) Preprocessor {
	return func(in any) (any, error) {
		tree, err := toValue(in)
		if err != nil {
			return nil, err
		}
		if err := tree.Init(a); err != nil {
			return nil, err
		}
		return tree.ToNative(), nil
	}
}

func toValue(in any) (value.Value, error) {
	if in == nil {
		return value.Null(), nil
	}
	return value.FromNative(in)
}
