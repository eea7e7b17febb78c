// Package config loads the storefront configuration.
//
// Configuration is assembled in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Overrides (CLI flags)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. LAREK_* environment     │
//	├─────────────────────────────┤
//	│  3. .env file               │
//	├─────────────────────────────┤
//	│  2. Config file             │  ← ~/.config/larek/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The config file may be TOML or YAML, chosen by extension. Every layer is a
// nested map; the maps are deep-merged and decoded into Config, which is then
// validated.
//
// # Basic Usage
//
//	cfg, err := config.Load(
//	    config.WithFile(path),
//	    config.WithOverride("api.baseUrl", apiURL),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.New(cfg.API.BaseURL, cfg.API.CDNURL, api.WithTimeout(cfg.API.Timeout))
//
// # Environment Variables
//
// LAREK_SECTION_SETTING_NAME maps to section.settingName, so
// LAREK_API_BASE_URL sets api.baseUrl. The short forms LAREK_API, LAREK_CDN,
// LAREK_LOG_LEVEL and LAREK_SCRIPTS are also accepted.
package config
