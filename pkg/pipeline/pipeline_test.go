package pipeline

import (
	"testing"

	"github.com/matzehuels/patchlayout/pkg/core/layout/arrange"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateMode(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"follow", false},
		{"face", false},
		{"spiral", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMode(tt.mode)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should pass: %v", err)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format should be %s, got %s", DefaultFormat, opts.Format)
	}
	if opts.Metrics != arrange.DefaultConfig() {
		t.Errorf("Metrics should default to arrange.DefaultConfig, got %+v", opts.Metrics)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Mode: "sideways"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown mode should fail")
	}

	opts = Options{Format: "pdf"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail")
	}

	// Custom metrics survive defaulting
	custom := arrange.DefaultConfig()
	custom.ColumnGap = 200
	opts = Options{Mode: "face", Metrics: custom}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}
	if opts.Metrics.ColumnGap != 200 {
		t.Errorf("ColumnGap = %v, want 200", opts.Metrics.ColumnGap)
	}

	// Second call is a no-op
	opts.Format = "bogus"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should not validate again: %v", err)
	}
}

func TestArrangeKeyOpts(t *testing.T) {
	a := Options{Mode: "follow"}
	a.SetDefaults()
	b := a
	b.Metrics.ColumnGap = 120

	if a.ArrangeKeyOpts() == b.ArrangeKeyOpts() {
		t.Error("different metrics should give different cache keys")
	}
	if a.ArrangeKeyOpts() != a.ArrangeKeyOpts() {
		t.Error("cache key options should be stable")
	}
}

func TestArrangeKeyOpts_HardwareOnSides(t *testing.T) {
	a := Options{Mode: "follow", HardwareOnSides: true}
	a.SetDefaults()
	b := a
	b.HardwareOnSides = false
	if a.ArrangeKeyOpts() == b.ArrangeKeyOpts() {
		t.Error("HardwareOnSides should be part of the arrange cache key")
	}

	// The metrics copy of the flag is overridden.
	c := a
	c.Metrics.HardwareOnSides = false
	if a.ArrangeKeyOpts() != c.ArrangeKeyOpts() {
		t.Error("Metrics.HardwareOnSides should not affect the cache key")
	}
	if !c.arrangement().HardwareOnSides {
		t.Error("arrangement() should take HardwareOnSides from the options")
	}
}

func TestDescribe(t *testing.T) {
	opts := Options{Format: "dot"}
	if got, want := opts.Describe(), "format=dot mode=none hardware_on_sides=false"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	opts.Mode = "face"
	opts.HardwareOnSides = true
	if got, want := opts.Describe(), "format=dot mode=face hardware_on_sides=true"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
