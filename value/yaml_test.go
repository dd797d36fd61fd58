package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-taskconfig/input"
)

func TestYAMLRoundTrip(t *testing.T) {
	tree := ObjectOf(
		"name", "Fight",
		"times", 3,
		"ratio", 2.0,
		"neg", -1.5,
		"flag", false,
		"none", nil,
		"looks_like_bool", "true",
		"looks_like_int", "42",
		"blank", "",
		"multiline", "a\nb\n",
		"list", []any{1, "a", []any{}, map[string]any{}},
		"nested", map[string]any{"a": map[string]any{"b": 0.0}},
	)

	data, err := yaml.Marshal(tree)
	require.NoError(t, err)

	got, err := ParseYAML(data)
	require.NoError(t, err)
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s\n%s", diff, data)
	}
}

func TestYAMLPendingRoundTrip(t *testing.T) {
	tree := ObjectOf(
		"stage", input.NewSelect([]string{"1-7", "CE-6"}, input.WithDefaultIndex(2)),
		"ratio", input.NewInput[float64](input.WithDefault(1.0), input.WithDescription("ratio")),
		"report", input.NewBoolInput(input.WithDefault(false)),
	)

	data, err := yaml.Marshal(tree)
	require.NoError(t, err)

	got, err := ParseYAML(data)
	require.NoError(t, err)
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s\n%s", diff, data)
	}
}

func TestYAMLDecode(t *testing.T) {
	src := `
base: &base
  stage: 1-7
  times: 2
task:
  <<: *base
  times: 5
list: [*base]
medicine:
  default: 0
  description: medicine to use
client:
  alternatives: [Official, Bilibili]
  default_index: 1
big: 0x10
when: 2024-01-02
`
	got, err := ParseYAML([]byte(src))
	require.NoError(t, err)

	want := ObjectOf(
		"base", map[string]any{"stage": "1-7", "times": 2},
		"task", map[string]any{"stage": "1-7", "times": 5},
		"list", []any{map[string]any{"stage": "1-7", "times": 2}},
		"medicine", input.NewInput[int64](input.WithDefault(int64(0)), input.WithDescription("medicine to use")),
		"client", input.NewSelect([]string{"Official", "Bilibili"}, input.WithDefaultIndex(1)),
		"big", 16,
		"when", "2024-01-02",
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestYAMLMergeSequence(t *testing.T) {
	src := `
a: &a {x: 1, y: 1}
b: &b {y: 2, z: 2}
c:
  <<: [*a, *b]
  z: 3
`
	got, err := ParseYAML([]byte(src))
	require.NoError(t, err)

	c, ok := got.Get("c")
	require.True(t, ok)
	assert.True(t, c.Equal(ObjectOf("x", 1, "y", 1, "z", 3)), c.String())
}

func TestYAMLEmptyAndErrors(t *testing.T) {
	got, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.True(t, got.IsNull())

	_, err = ParseYAML([]byte("a: [1, 2"))
	assert.Error(t, err)

	_, err = ParseYAML([]byte("? [1, 2]\n: x\n"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestYAMLFieldInStruct(t *testing.T) {
	var doc struct {
		Params Value `yaml:"params"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("params:\n  times: 2\n"), &doc))
	assert.True(t, doc.Params.Equal(ObjectOf("times", 2)))
}
