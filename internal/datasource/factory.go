package datasource

import (
	"fmt"
	"log"

	"github.com/yourusername/betpulse/internal/config"
)

// Factory creates MatchSource implementations based on configuration
type Factory struct {
	logger *log.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewMatchSource creates a MatchSource from a single source configuration
func (f *Factory) NewMatchSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (MatchSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case "cs2", "hltv":
		return NewCS2Client(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Enabled, f.logger), nil

	case "khl":
		return NewKHLClient(httpClient, cfg.BaseURL, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewMatchSources creates all enabled data sources from configuration
func (f *Factory) NewMatchSources(dataCfg config.DataIngestionConfig, httpClient *RateLimitedHTTPClient) ([]MatchSource, error) {
	var sources []MatchSource

	for _, srcCfg := range dataCfg.Sources {
		if !srcCfg.Enabled {
			if f.logger != nil {
				f.logger.Printf("Skipping disabled data source: %s", srcCfg.Name)
			}
			continue
		}

		source, err := f.NewMatchSource(srcCfg, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		if f.logger != nil {
			f.logger.Printf("Created data source: %s", srcCfg.Name)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
