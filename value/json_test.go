package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-taskconfig/input"
)

func concreteTree() Value {
	return ObjectOf(
		"name", "Fight",
		"times", 3,
		"ratio", 2.0,
		"neg", -1.5,
		"huge", 1e300,
		"tiny", 1e-9,
		"flag", false,
		"none", nil,
		"quote", "a \"b\" <c>\n",
		"list", []any{1, "a", []any{}, map[string]any{}},
		"nested", map[string]any{"a": map[string]any{"b": 0.0, "c": math.MaxInt64}},
		"empty", map[string]any{},
	)
}

func TestJSONRoundTrip(t *testing.T) {
	tree := concreteTree()

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	got, err := ParseJSON(data)
	require.NoError(t, err)
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}

	var viaStd Value
	require.NoError(t, json.Unmarshal(data, &viaStd))
	assert.True(t, tree.Equal(viaStd))
}

func TestJSONNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{raw: `1`, want: Int(1)},
		{raw: `-0`, want: Int(0)},
		{raw: `1.0`, want: Float(1)},
		{raw: `1e3`, want: Float(1000)},
		{raw: `9223372036854775807`, want: Int(math.MaxInt64)},
		{raw: `18446744073709551616`, want: Float(18446744073709551616)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseJSON([]byte(tt.raw))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONFloatsKeepFraction(t *testing.T) {
	tests := map[float64]string{
		2:       "2.0",
		0:       "0.0",
		-3:      "-3.0",
		0.5:     "0.5",
		1e21:    "1e+21",
		1.5e-7:  "1.5e-07",
		123.456: "123.456",
	}
	for f, want := range tests {
		data, err := Float(f).MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}

	_, err := Float(math.NaN()).MarshalJSON()
	assert.ErrorIs(t, err, ErrInvalidNumber)
	_, err = ObjectOf("a", math.Inf(1)).MarshalJSON()
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestJSONInvalid(t *testing.T) {
	for _, raw := range []string{``, `{"a":`, `[1,]`, `nope`} {
		_, err := ParseJSON([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidJSON, raw)
	}
}

func TestJSONRecordDetection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{
			name: "int default",
			raw:  `{"default": 1}`,
			want: InputInt(input.NewInput[int64](input.WithDefault(int64(1)))),
		},
		{
			name: "float default with description",
			raw:  `{"default": 1.5, "description": "ratio"}`,
			want: InputFloat(input.NewInput[float64](input.WithDefault(1.5), input.WithDescription("ratio"))),
		},
		{
			name: "bool default",
			raw:  `{"default": true}`,
			want: InputBool(input.NewBoolInput(input.WithDefault(true))),
		},
		{
			name: "string default",
			raw:  `{"default": "1-7"}`,
			want: InputString(input.NewInput[string](input.WithDefault("1-7"))),
		},
		{
			name: "description only",
			raw:  `{"description": "client type"}`,
			want: InputString(input.NewInput[string](input.WithDescription("client type"))),
		},
		{
			name: "null default",
			raw:  `{"default": null}`,
			want: InputString(input.NewInput[string]()),
		},
		{
			name: "string select",
			raw:  `{"alternatives": ["a", "b"], "default_index": 2, "description": "stage"}`,
			want: InputString(input.NewSelect([]string{"a", "b"}, input.WithDefaultIndex(2), input.WithDescription("stage"))),
		},
		{
			name: "int select",
			raw:  `{"alternatives": [1, 2]}`,
			want: InputInt(input.NewSelect([]int64{1, 2})),
		},
		{
			name: "mixed numbers select as float",
			raw:  `{"alternatives": [1, 2.5]}`,
			want: InputFloat(input.NewSelect([]float64{1, 2.5})),
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: New(),
		},
		{
			name: "empty alternatives",
			raw:  `{"alternatives": []}`,
			want: ObjectOf("alternatives", []any{}),
		},
		{
			name: "heterogeneous alternatives",
			raw:  `{"alternatives": ["a", 1]}`,
			want: ObjectOf("alternatives", []any{"a", 1}),
		},
		{
			name: "extra key",
			raw:  `{"default": 1, "other": 2}`,
			want: ObjectOf("default", 1, "other", 2),
		},
		{
			name: "default with select fields",
			raw:  `{"alternatives": [1], "default": 1}`,
			want: ObjectOf("alternatives", []any{1}, "default", 1),
		},
		{
			name: "non scalar default",
			raw:  `{"default": [1]}`,
			want: ObjectOf("default", []any{1}),
		},
		{
			name: "non string description",
			raw:  `{"description": 3}`,
			want: ObjectOf("description", 3),
		},
		{
			name: "non int default index",
			raw:  `{"alternatives": [1], "default_index": "1"}`,
			want: ObjectOf("alternatives", []any{1}, "default_index", "1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON([]byte(tt.raw))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONPendingEncoding(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{
			name:  "input with default and description",
			value: InputInt(input.NewInput[int64](input.WithDefault(int64(5)), input.WithDescription("times"))),
			want:  `{"default":5,"description":"times"}`,
		},
		{
			name:  "float default keeps fraction",
			value: InputFloat(input.NewInput[float64](input.WithDefault(2.0))),
			want:  `{"default":2.0}`,
		},
		{
			name:  "select",
			value: InputString(input.NewSelect([]string{"1-7", "CE-6"}, input.WithDefaultIndex(1))),
			want:  `{"alternatives":["1-7","CE-6"],"default_index":1}`,
		},
		{
			name:  "bare descriptor",
			value: InputInt(nil),
			want:  `{"default":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
			assert.Equal(t, tt.want, string(data))

			back, err := ParseJSON(data)
			require.NoError(t, err)
			assert.True(t, back.IsInput())
		})
	}
}

func TestJSONPendingRoundTrip(t *testing.T) {
	tree := ObjectOf(
		"stage", input.NewSelect([]string{"1-7", "CE-6"}, input.WithDefaultIndex(2), input.WithDescription("stage")),
		"ratio", input.NewInput[float64](input.WithDefault(2.0)),
		"report", input.NewBoolInput(input.WithDefault(true), input.WithDescription("report drops")),
		"medicine", input.NewSelect([]int64{0, 1, 2}),
	)

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	got, err := ParseJSON(data)
	require.NoError(t, err)
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestJSONInsideStructs(t *testing.T) {
	var doc struct {
		Name   string `json:"name"`
		Params Value  `json:"params"`
	}
	raw := `{"name": "fight", "params": {"stage": {"default": "1-7"}, "times": 2}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "fight", doc.Name)
	stage, ok := doc.Params.Get("stage")
	require.True(t, ok)
	assert.Equal(t, KindInputString, stage.Kind())
}
