package crawler

import (
	"usdscan/depositworker/config"
	"usdscan/depositworker/helpers"
)

// CreateStrategies builds the ordered strategy list. Known structured sources
// come first; the generic crawl strategy is last and claims every domain, so
// adding a structured source is a registration, not a pipeline change.
func CreateStrategies(cfg *config.Config, fetcher helpers.Fetcher) []Strategy {
	return []Strategy{
		NewXalqStrategy(fetcher),
		NewGenericStrategy(fetcher, cfg.MaxPagesPerSite, cfg.MaxLinksPerPage, cfg.MaxJSONURLs),
	}
}

// Dispatch returns the first registered strategy that claims the domain.
func Dispatch(strategies []Strategy, domain string) Strategy {
	for _, s := range strategies {
		if s.CanHandle(domain) {
			return s
		}
	}
	return nil
}
