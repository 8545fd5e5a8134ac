package catalog

import (
	"github.com/mager/chordlegend/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideCatalog loads the configured catalog and, for an override file,
// keeps it in sync with the file for the lifetime of the app.
func ProvideCatalog(lc fx.Lifecycle, log *zap.SugaredLogger, cfg config.Config) (*Catalog, error) {
	c, err := Load(cfg.CatalogPath)
	if err != nil {
		log.Errorw("Failed to load catalog", "path", cfg.CatalogPath, "error", err)
		return nil, err
	}
	log.Infow("Loaded catalog", "songs", len(c.Songs()), "path", cfg.CatalogPath)

	if cfg.CatalogPath != "" {
		w := NewWatcher(log, c, cfg.CatalogPath, DefaultReloadDelay)
		lc.Append(fx.Hook{
			OnStart: w.onStart,
			OnStop:  w.onStop,
		})
	}
	return c, nil
}

var Options = ProvideCatalog
