package lottery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinRegistry(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	tests := []struct {
		lotteryType  string
		mainMin      int
		mainMax      int
		mainCount    int
		secondaryKey string
		distinct     bool
	}{
		{"euromillones", 1, 50, 5, "lucky_numbers", true},
		{"la_primitiva", 1, 49, 6, "complementary", false},
		{"el_gordo", 1, 54, 5, "key_number", false},
	}
	for _, tt := range tests {
		cfg, ok := r.Get(tt.lotteryType)
		if !ok {
			t.Fatalf("missing lottery type %q", tt.lotteryType)
		}
		if cfg.Main.Min != tt.mainMin || cfg.Main.Max != tt.mainMax || cfg.Main.Count != tt.mainCount {
			t.Fatalf("%s main field: got=%+v want min=%d max=%d count=%d",
				tt.lotteryType, cfg.Main, tt.mainMin, tt.mainMax, tt.mainCount)
		}
		if cfg.Secondary == nil {
			t.Fatalf("%s has no secondary field", tt.lotteryType)
		}
		if cfg.Secondary.Key != tt.secondaryKey {
			t.Fatalf("%s secondary key: got=%q want=%q", tt.lotteryType, cfg.Secondary.Key, tt.secondaryKey)
		}
		if cfg.Secondary.Distinct != tt.distinct {
			t.Fatalf("%s distinct flag: got=%v want=%v", tt.lotteryType, cfg.Secondary.Distinct, tt.distinct)
		}
	}

	if got := len(r.Types()); got != 3 {
		t.Fatalf("unexpected type count: got=%d want=3", got)
	}
}

func TestRegistryGetUnknownType(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	if _, ok := r.Get("powerball"); ok {
		t.Fatalf("expected miss for unknown lottery type")
	}
}

func TestDumpWireShape(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	dump := r.Dump()

	entry, ok := dump["euromillones"]
	if !ok {
		t.Fatalf("dump missing euromillones")
	}
	main, ok := entry["main_numbers"].(map[string]int)
	if !ok {
		t.Fatalf("main_numbers not rendered: %+v", entry)
	}
	if main["count"] != 5 {
		t.Fatalf("main count: got=%d want=5", main["count"])
	}
	lucky, ok := entry["lucky_numbers"].(map[string]int)
	if !ok {
		t.Fatalf("lucky_numbers not rendered under its key: %+v", entry)
	}
	if lucky["max"] != 12 {
		t.Fatalf("lucky max: got=%d want=12", lucky["max"])
	}
	if entry["name_pt"] != "EuroMilhões" {
		t.Fatalf("name_pt: got=%v", entry["name_pt"])
	}
}

func TestLoadFileOverride(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "lotteries.yaml")
	raw := `
mini_loto:
  main_numbers:
    min: 1
    max: 31
    count: 5
  secondary:
    key: bonus
    min: 1
    max: 9
    count: 1
  name_pt: Mini Loto
  name_es: Mini Loto
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config file: %v", err)
	}
	cfg, ok := r.Get("mini_loto")
	if !ok {
		t.Fatalf("override registry missing mini_loto")
	}
	if cfg.Main.Max != 31 {
		t.Fatalf("main max: got=%d want=31", cfg.Main.Max)
	}
	if cfg.Secondary == nil || cfg.Secondary.Key != "bonus" {
		t.Fatalf("secondary not loaded: %+v", cfg.Secondary)
	}
	if _, ok := r.Get("euromillones"); ok {
		t.Fatalf("override should replace the built-in table")
	}
}

func TestLoadFileRejectsBadConfigs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"zero count", "bad:\n  main_numbers:\n    min: 1\n    max: 10\n    count: 0\n"},
		{"inverted range", "bad:\n  main_numbers:\n    min: 10\n    max: 1\n    count: 3\n"},
		{"distinct overflow", "bad:\n  main_numbers:\n    min: 1\n    max: 10\n    count: 5\n  secondary:\n    key: extra\n    min: 1\n    max: 2\n    count: 5\n    distinct: true\n"},
		{"missing secondary key", "bad:\n  main_numbers:\n    min: 1\n    max: 10\n    count: 3\n  secondary:\n    min: 1\n    max: 5\n    count: 1\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "lotteries.yaml")
			if err := os.WriteFile(path, []byte(tt.raw), 0o600); err != nil {
				t.Fatalf("write config file: %v", err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
