package history

import "github.com/kilianp07/teambalance/core/factory"

// Options holds the settings shared by the built-in stores.
type Options struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

var registry = factory.NewRegistry[Store]()

func init() {
	_ = Register("jsonl", func(conf map[string]any) (Store, error) {
		var o Options
		if err := factory.Decode(conf, &o); err != nil {
			return nil, err
		}
		return NewJSONLStore(o.Path)
	})
	_ = Register("rotating", func(conf map[string]any) (Store, error) {
		var o Options
		if err := factory.Decode(conf, &o); err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(o.Path, o.MaxSizeMB, o.MaxBackups, o.MaxAgeDays)
	})
	_ = Register("sqlite", func(conf map[string]any) (Store, error) {
		var o Options
		if err := factory.Decode(conf, &o); err != nil {
			return nil, err
		}
		return NewSQLiteStore(o.Path)
	})
}

// Register adds a store factory identified by name.
func Register(name string, f factory.Factory[Store]) error {
	return registry.Register(name, f)
}

// New creates the store described by cfg.
func New(cfg factory.ModuleConfig) (Store, error) {
	return registry.Create(cfg)
}

// Backends lists the registered store types.
func Backends() []string { return registry.Types() }
