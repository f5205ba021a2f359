package lottery

import (
  "fmt"
  "os"
  "gopkg.in/yaml.v3"
)

type NumberField struct {
  Min   int `yaml:"min" json:"min"`
  Max   int `yaml:"max" json:"max"`
  Count int `yaml:"count" json:"count"`
}

// SecondaryField is the extra per-game draw ("lucky_numbers",
// "complementary" or "key_number"). Distinct games sample it without
// replacement and sort it; the rest draw each entry independently.
type SecondaryField struct {
  Key      string `yaml:"key" json:"-"`
  Min      int    `yaml:"min" json:"min"`
  Max      int    `yaml:"max" json:"max"`
  Count    int    `yaml:"count" json:"count"`
  Distinct bool   `yaml:"distinct" json:"-"`
}

type Config struct {
  Type      string          `yaml:"-"`
  Main      NumberField     `yaml:"main_numbers"`
  Secondary *SecondaryField `yaml:"secondary"`
  NamePT    string          `yaml:"name_pt"`
  NameES    string          `yaml:"name_es"`
}

// Registry is built once at startup and injected where needed; it is
// never mutated afterwards.
type Registry struct {
  configs map[string]Config
  order   []string
}

func NewRegistry() *Registry {
  r := &Registry{configs: map[string]Config{}}
  r.add(Config{
    Type:      "euromillones",
    Main:      NumberField{Min: 1, Max: 50, Count: 5},
    Secondary: &SecondaryField{Key: "lucky_numbers", Min: 1, Max: 12, Count: 2, Distinct: true},
    NamePT:    "EuroMilhões",
    NameES:    "Euromillones",
  })
  r.add(Config{
    Type:      "la_primitiva",
    Main:      NumberField{Min: 1, Max: 49, Count: 6},
    Secondary: &SecondaryField{Key: "complementary", Min: 0, Max: 9, Count: 1},
    NamePT:    "La Primitiva",
    NameES:    "La Primitiva",
  })
  r.add(Config{
    Type:      "el_gordo",
    Main:      NumberField{Min: 1, Max: 54, Count: 5},
    Secondary: &SecondaryField{Key: "key_number", Min: 0, Max: 9, Count: 1},
    NamePT:    "El Gordo",
    NameES:    "El Gordo",
  })
  return r
}

// LoadFile replaces the built-in table with the one described in a YAML
// file. The file maps lottery type to config; entries are validated the
// same way the built-ins are assumed to be.
func LoadFile(path string) (*Registry, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, fmt.Errorf("read lottery config file: %w", err)
  }
  var parsed map[string]Config
  if err := yaml.Unmarshal(raw, &parsed); err != nil {
    return nil, fmt.Errorf("parse lottery config file: %w", err)
  }
  if len(parsed) == 0 {
    return nil, fmt.Errorf("lottery config file %s defines no lotteries", path)
  }
  r := &Registry{configs: map[string]Config{}}
  for lotteryType, cfg := range parsed {
    cfg.Type = lotteryType
    if err := validate(cfg); err != nil {
      return nil, fmt.Errorf("lottery %q: %w", lotteryType, err)
    }
    r.add(cfg)
  }
  return r, nil
}

func (r *Registry) add(cfg Config) {
  if _, exists := r.configs[cfg.Type]; !exists {
    r.order = append(r.order, cfg.Type)
  }
  r.configs[cfg.Type] = cfg
}

func (r *Registry) Get(lotteryType string) (Config, bool) {
  cfg, ok := r.configs[lotteryType]
  return cfg, ok
}

func (r *Registry) Types() []string {
  out := make([]string, len(r.order))
  copy(out, r.order)
  return out
}

// Dump renders the registry in the public wire shape:
// main_numbers plus the secondary field under its per-game key.
func (r *Registry) Dump() map[string]map[string]any {
  out := make(map[string]map[string]any, len(r.configs))
  for lotteryType, cfg := range r.configs {
    entry := map[string]any{
      "main_numbers": map[string]int{
        "min":   cfg.Main.Min,
        "max":   cfg.Main.Max,
        "count": cfg.Main.Count,
      },
      "name_pt": cfg.NamePT,
      "name_es": cfg.NameES,
    }
    if cfg.Secondary != nil {
      entry[cfg.Secondary.Key] = map[string]int{
        "min":   cfg.Secondary.Min,
        "max":   cfg.Secondary.Max,
        "count": cfg.Secondary.Count,
      }
    }
    out[lotteryType] = entry
  }
  return out
}

func validate(cfg Config) error {
  if err := validateField("main_numbers", cfg.Main.Min, cfg.Main.Max, cfg.Main.Count, true); err != nil {
    return err
  }
  if cfg.Secondary != nil {
    if cfg.Secondary.Key == "" {
      return fmt.Errorf("secondary field needs a key")
    }
    if err := validateField(cfg.Secondary.Key, cfg.Secondary.Min, cfg.Secondary.Max, cfg.Secondary.Count, cfg.Secondary.Distinct); err != nil {
      return err
    }
  }
  return nil
}

func validateField(name string, min, max, count int, distinct bool) error {
  if count <= 0 {
    return fmt.Errorf("%s: count must be positive, got %d", name, count)
  }
  if min > max {
    return fmt.Errorf("%s: min %d exceeds max %d", name, min, max)
  }
  if distinct && count > max-min+1 {
    return fmt.Errorf("%s: cannot draw %d distinct numbers from [%d,%d]", name, count, min, max)
  }
  return nil
}
