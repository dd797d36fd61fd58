package input

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted answers prompts from a fixed list and records what was asked.
type scripted struct {
	answers []string
	prompts []string
}

func (s *scripted) Interactive() bool { return true }

func (s *scripted) Ask(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

func TestInputNonInteractive(t *testing.T) {
	withDefault := NewInput[int64](WithDefault(int64(7)))
	v, err := withDefault.Resolve(NonInteractive)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = withDefault.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	missing := NewInput[string](WithDescription("stage name"))
	_, err = missing.Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrNoDefault)
	assert.Contains(t, err.Error(), "stage name")
}

func TestInputWrongDefaultTypeIgnored(t *testing.T) {
	in := NewInput[int64](WithDefault("seven"))
	assert.Nil(t, in.Default)
}

func TestInputInteractive(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input[int64]
		answers []string
		want    int64
		wantErr error
	}{
		{
			name:    "parsed answer",
			input:   NewInput[int64](),
			answers: []string{"42"},
			want:    42,
		},
		{
			name:    "empty answer takes default",
			input:   NewInput[int64](WithDefault(int64(3))),
			answers: []string{""},
			want:    3,
		},
		{
			name:    "invalid then valid",
			input:   NewInput[int64](),
			answers: []string{"abc", "", " 9 "},
			want:    9,
		},
		{
			name:    "gives up after max attempts",
			input:   NewInput[int64](),
			answers: []string{"a", "b", "c", "4"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "eof aborts",
			input:   NewInput[int64](),
			answers: nil,
			wantErr: io.EOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &scripted{answers: tt.answers}
			got, err := tt.input.Resolve(asker)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputFloatAndString(t *testing.T) {
	f, err := NewInput[float64]().Resolve(&scripted{answers: []string{"2.5"}})
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	s, err := NewInput[string](WithDescription("name")).Resolve(&scripted{answers: []string{"  Alice "}})
	require.NoError(t, err)
	assert.Equal(t, "Alice", s)
}

func TestInputPromptMentionsDefault(t *testing.T) {
	asker := &scripted{answers: []string{""}}
	_, err := NewInput[string](WithDefault("1-7"), WithDescription("stage")).Resolve(asker)
	require.NoError(t, err)
	require.Len(t, asker.prompts, 1)
	assert.Equal(t, "Please input stage [default: 1-7]: ", asker.prompts[0])
}

func TestSelect(t *testing.T) {
	sel := NewSelect([]string{"1-7", "CE-6"}, WithDefaultIndex(2), WithDescription("stage"))

	v, err := sel.Resolve(NonInteractive)
	require.NoError(t, err)
	assert.Equal(t, "CE-6", v)

	v, err = sel.Resolve(&scripted{answers: []string{"1"}})
	require.NoError(t, err)
	assert.Equal(t, "1-7", v)

	v, err = sel.Resolve(&scripted{answers: []string{"5", ""}})
	require.NoError(t, err)
	assert.Equal(t, "CE-6", v)

	asker := &scripted{answers: []string{"2"}}
	_, err = sel.Resolve(asker)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asker.prompts[0], "1. 1-7\n2. CE-6 (default)\n"))
}

func TestSelectErrors(t *testing.T) {
	_, err := NewSelect[int64](nil).Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrEmptyAlternatives)

	_, err = NewSelect([]int64{1, 2}, WithDefaultIndex(3)).Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrInvalidDefault)

	_, err = NewSelect([]int64{1, 2}).Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestNilDescriptorsResolve(t *testing.T) {
	_, err := (*Input[int64])(nil).Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrNoDefault)

	v, err := (*Input[string])(nil).Resolve(&scripted{answers: []string{"1-7"}})
	require.NoError(t, err)
	assert.Equal(t, "1-7", v)

	_, err = (*Select[string])(nil).Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrEmptyAlternatives)

	_, err = (*BoolInput)(nil).Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestBoolInput(t *testing.T) {
	tests := []struct {
		name    string
		input   *BoolInput
		answers []string
		want    bool
		wantErr error
	}{
		{name: "yes", input: NewBoolInput(), answers: []string{"y"}, want: true},
		{name: "no upper", input: NewBoolInput(), answers: []string{"NO"}, want: false},
		{name: "default", input: NewBoolInput(WithDefault(true)), answers: []string{""}, want: true},
		{name: "retry", input: NewBoolInput(), answers: []string{"maybe", "true"}, want: true},
		{name: "exhausted", input: NewBoolInput(), answers: []string{"", "", ""}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.Resolve(&scripted{answers: tt.answers})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	v, err := NewBoolInput(WithDefault(false)).Resolve(NonInteractive)
	require.NoError(t, err)
	assert.False(t, v)

	_, err = NewBoolInput().Resolve(NonInteractive)
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestClonesAreIndependent(t *testing.T) {
	in := NewInput[string](WithDefault("a"), WithDescription("d"))
	cp := in.Clone().(*Input[string])
	*cp.Default = "b"
	assert.Equal(t, "a", *in.Default)

	sel := NewSelect([]int64{1, 2}, WithDefaultIndex(1))
	scp := sel.Clone().(*Select[int64])
	scp.Alternatives[0] = 9
	*scp.DefaultIndex = 2
	assert.Equal(t, []int64{1, 2}, sel.Alternatives)
	assert.Equal(t, 1, *sel.DefaultIndex)

	b := NewBoolInput(WithDefault(true))
	bcp := b.Clone()
	*bcp.Default = false
	assert.True(t, *b.Default)
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(WithReader(strings.NewReader("first\r\nlast")), WithWriter(&out), WithInteractive(true))

	line, err := s.Ask("q1: ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = s.Ask("q2: ")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = s.Ask("q3: ")
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, "q1: q2: q3: ", out.String())
}

func TestSessionBatch(t *testing.T) {
	s := NewSession(WithReader(strings.NewReader("ignored\n")), WithInteractive(false))
	assert.False(t, s.Interactive())

	_, err := s.Ask("q: ")
	assert.ErrorIs(t, err, ErrNotInteractive)

	v, err := NewInput[string](WithDefault("d")).Resolve(s)
	require.NoError(t, err)
	assert.Equal(t, "d", v)
}
