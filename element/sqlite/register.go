package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/config"
)

type elementConfig struct {
	Path      string `json:"path"`
	Dimension int    `json:"dimension,omitempty"`
}

func init() {
	config.RegisterElement("sqlite", func(ctx context.Context, typeLabel string, key descgo.Key, raw json.RawMessage) (descgo.DescriptorElement, error) {
		var cfg elementConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse sqlite element config: %w", err)
		}
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite element requires a database path")
		}

		return NewElement(ctx, cfg.Path, typeLabel, key, WithDimension(cfg.Dimension))
	})
}
