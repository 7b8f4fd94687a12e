package dynamo

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/config"
)

type elementConfig struct {
	Table     string `json:"table"`
	Region    string `json:"region,omitempty"`
	Dimension int    `json:"dimension,omitempty"`
}

func init() {
	config.RegisterElement("dynamo", func(ctx context.Context, typeLabel string, key descgo.Key, raw json.RawMessage) (descgo.DescriptorElement, error) {
		var cfg elementConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse dynamo element config: %w", err)
		}
		if cfg.Table == "" {
			return nil, fmt.Errorf("dynamo element requires a table name")
		}

		store, err := configuredStore(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return store.Element(typeLabel, key), nil
	})
}

// configuredStore reuses the store already bound to the configured
// table, or binds a new one on the ambient AWS credential chain.
func configuredStore(ctx context.Context, cfg elementConfig) (*Store, error) {
	if s, err := lookupStore(cfg.Table); err == nil {
		if cfg.Dimension != 0 && cfg.Dimension != s.dim {
			return nil, fmt.Errorf("table %q already bound with dimension %d", cfg.Table, s.dim)
		}
		return s, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return NewStore(dynamodb.NewFromConfig(awsCfg), cfg.Table, WithDimension(cfg.Dimension)), nil
}
