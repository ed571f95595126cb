// Package timex holds time helpers shared by the config loaders.
package timex

import (
	"encoding/json"
	"flag"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files may write either a Go
// duration string ("10m", "1h30m") or an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case int:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
	return nil
}

type flagDuration struct {
	d    *time.Duration
	unit time.Duration
}

// FlagValue exposes d as a flag.Value. A bare integer is read in unit, so
// "-t 15" with a minute unit means fifteen minutes; "-t 90s" is accepted too.
func FlagValue(d *time.Duration, unit time.Duration) flag.Value {
	return &flagDuration{d: d, unit: unit}
}

func (f *flagDuration) String() string {
	if f.d == nil {
		return ""
	}
	return f.d.String()
}

func (f *flagDuration) Set(s string) error {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f.d = time.Duration(n) * f.unit
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*f.d = v
	return nil
}
