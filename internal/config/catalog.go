package config

import "sync"

type CatalogConfig struct {
	Path string
}

var (
	catalogConfig *CatalogConfig
	catalogOnce   sync.Once
)

func LoadCatalogConfig() *CatalogConfig {
	catalogOnce.Do(func() {
		catalogConfig = &CatalogConfig{
			Path: getEnv("CATALOG_FILE", "./configs/onboarding_catalog.yaml"),
		}
	})
	return catalogConfig
}
