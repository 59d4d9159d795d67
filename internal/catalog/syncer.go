package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const (
	defaultSyncInterval   = 30 * time.Minute
	defaultRequestTimeout = 15 * time.Second
)

// Config holds product catalog sync settings. An empty URL disables
// the syncer.
type Config struct {
	URL      string        `yaml:"url"`      // Product export endpoint on the membership site.
	Interval time.Duration `yaml:"interval"` // Refresh interval, defaults to 30m.
}

// LoadConfig reads catalog sync settings from the YAML config file.
func LoadConfig(configPath string) Config {
	type fileConfig struct {
		Catalog Config `yaml:"catalog"`
	}

	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		return Config{}
	}
	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return Config{}
	}

	result := cfg.Catalog
	result.URL = strings.TrimSpace(result.URL)
	if result.Interval <= 0 {
		result.Interval = defaultSyncInterval
	}
	return result
}

// Syncer keeps the products table synced with the membership site.
type Syncer struct {
	db       *gorm.DB
	url      string
	interval time.Duration
	client   *http.Client
}

// NewSyncer constructs a product catalog syncer. Returns nil when the
// URL is empty or the database handle is missing.
func NewSyncer(db *gorm.DB, cfg Config) *Syncer {
	if db == nil || strings.TrimSpace(cfg.URL) == "" {
		return nil
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &Syncer{
		db:       db,
		url:      strings.TrimSpace(cfg.URL),
		interval: interval,
		client:   &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Start runs the sync loop in the background.
func (s *Syncer) Start(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("product catalog syncer started (interval=%s)", s.interval)
}

func (s *Syncer) run(ctx context.Context) {
	if err := s.SyncOnce(ctx); err != nil {
		log.WithError(err).Warn("catalog syncer: initial sync failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				log.WithError(err).Warn("catalog syncer: sync failed")
			}
		}
	}
}

// SyncOnce fetches and persists the latest product export.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog syncer: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := s.client
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	requestCtx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("catalog syncer: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog syncer: request failed: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.WithError(errClose).Warn("catalog syncer: close response body failed")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("catalog syncer: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("catalog syncer: read response: %w", err)
	}

	products, err := ParseProductsPayload(body)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("catalog syncer: empty payload")
	}

	return StoreProducts(ctx, s.db, products)
}
