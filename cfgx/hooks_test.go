package cfgx_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-taskconfig/cfgx"
	"github.com/goliatone/go-taskconfig/input"
	"github.com/goliatone/go-taskconfig/value"
)

func TestValueHook(t *testing.T) {
	type Config struct {
		Params value.Value   `koanf:"params"`
		List   value.Value   `koanf:"list"`
		Plain  value.Value   `koanf:"plain"`
		Items  []value.Value `koanf:"items"`
	}

	cfg, err := cfgx.Build[Config](map[string]any{
		"params": map[string]any{
			"medicine": map[string]any{"default": 1, "description": "medicine"},
		},
		"list":  []any{1, "two"},
		"plain": "text",
		"items": []any{map[string]any{"alternatives": []any{"a", "b"}}, 3.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	medicine, ok := cfg.Params.Get("medicine")
	if !ok || medicine.Kind() != value.KindInputInt {
		t.Fatalf("expected pending int, got %v", cfg.Params)
	}
	if !cfg.List.Equal(value.Array(value.Int(1), value.String("two"))) {
		t.Fatalf("unexpected list %v", cfg.List)
	}
	if !cfg.Plain.Equal(value.String("text")) {
		t.Fatalf("unexpected plain %v", cfg.Plain)
	}
	if len(cfg.Items) != 2 || cfg.Items[0].Kind() != value.KindInputString || !cfg.Items[1].Equal(value.Float(3.5)) {
		t.Fatalf("unexpected items %v", cfg.Items)
	}
}

func TestValueHookRejectsUnsupportedData(t *testing.T) {
	type Config struct {
		Params value.Value `koanf:"params"`
	}
	_, err := cfgx.Build[Config](map[string]any{"params": map[int]string{1: "x"}})
	if !errors.Is(err, cfgx.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestWithInitResolvesBeforeDecode(t *testing.T) {
	type Config struct {
		Stage string `koanf:"stage"`
		Times int    `koanf:"times"`
	}
	tree := value.ObjectOf(
		"stage", input.NewSelect([]string{"1-7", "CE-6"}, input.WithDefaultIndex(2)),
		"times", input.NewInput[int64](input.WithDefault(int64(5))),
	)

	cfg, err := cfgx.Build[Config](tree, cfgx.WithInit[Config](input.NonInteractive))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Stage != "CE-6" || cfg.Times != 5 {
		t.Fatalf("unexpected cfg: %#v", cfg)
	}

	missing := value.ObjectOf("stage", input.NewInput[string]())
	_, err = cfgx.Build[Config](missing, cfgx.WithInit[Config](nil))
	if !errors.Is(err, cfgx.ErrPreprocess) || !errors.Is(err, input.ErrNoDefault) {
		t.Fatalf("expected preprocess error wrapping ErrNoDefault, got %v", err)
	}
}

func TestDurationHook(t *testing.T) {
	type Config struct {
		Timeout time.Duration `koanf:"timeout"`
	}

	cfg, err := cfgx.Build[Config](map[string]any{"timeout": "3s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", cfg.Timeout)
	}

	_, err = cfgx.Build[Config](map[string]any{"timeout": "3s"}, cfgx.WithoutDefaultHooks[Config]())
	if err == nil {
		t.Fatal("expected decode error without duration hook")
	}
}

type upperString string

func (u *upperString) UnmarshalText(text []byte) error {
	*u = upperString(strings.ToUpper(string(text)))
	return nil
}

func (u upperString) MarshalText() ([]byte, error) {
	return []byte(string(u)), nil
}

func TestTextUnmarshalerHook(t *testing.T) {
	type Config struct {
		Client upperString `koanf:"client"`
	}

	cfg, err := cfgx.Build[Config](map[string]any{"client": "official"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Client != upperString("OFFICIAL") {
		t.Fatalf("expected OFFICIAL, got %s", cfg.Client)
	}
}

func ExampleValueHook() {
	type Task struct {
		Name   string      `koanf:"name"`
		Params value.Value `koanf:"params"`
	}
	task, err := cfgx.Build[Task](map[string]any{
		"name":   "Fight",
		"params": map[string]any{"stage": map[string]any{"default": "1-7"}},
	})
	if err != nil {
		panic(err)
	}
	if err := task.Params.Init(nil); err != nil {
		panic(err)
	}
	fmt.Println(task.Params)
	// Output: {"stage":"1-7"}
}
