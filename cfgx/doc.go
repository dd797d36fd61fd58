// Package cfgx decodes configuration trees into typed structs.
//
// Build takes a value.Value (or plain map data, or a JSON document as []byte)
// and runs it through a fixed pipeline: defaults, normalize, preprocess,
// decode and validate. Each failure is reported as a *StageError matching the
// stage sentinel, so callers can branch with errors.Is and still read the
// stage metadata through errors.As.
//
// Option catalog:
//   - Defaults: WithDefaults, WithDefaultFunc. Defaults are deep copied before use.
//   - Preprocessing: WithPreprocess, WithPreprocessFunc, WithMerge, WithDefaultsTree, WithInit.
//   - Decoder behavior: WithDecoder, WithDecoderConfig, WithDecodeHooks, WithStrictKeys,
//     WithWeakTyping, WithTagName, WithoutDefaultHooks/WithDefaultHooks.
//   - Validation: WithValidator, WithValidatorFunc.
//   - Diagnostics: WithOptionError lets wrappers surface invalid option state.
//
// Hook helpers:
//   - ValueHook hands subtrees to value.Value fields untouched, pending inputs included.
//   - DurationHook mirrors mapstructure's string-to-duration helper.
//   - TextUnmarshalerHook preserves compatibility with encoding.Text(Un)Marshaler types.
//
// Fields are matched with the "koanf" tag by default, the same tag the config
// providers use.
package cfgx
