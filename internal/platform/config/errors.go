package config

import (
	"fmt"
	"log/slog"

	"github.com/mktcore/sales-gateway/internal/domain"
)

// statusResolverName is the reserved resolver section for raw HTTP
// statuses; every other section names a peer service.
const statusResolverName = "http-status"

// ErrorTables converts the declarative application.errors and
// application.resolver sections into the immutable domain tables.
//
// Malformed entries (empty code, status outside 100-599) fail here so
// the process refuses to start. Names outside the closed catalog only
// warn: the table stays total and the runtime fallback chain covers the
// gap, which also keeps old configs loadable after a key is retired.
func (c *Config) ErrorTables(logger *slog.Logger) (*domain.Tables, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries := make(map[domain.Key]domain.ConfigEntry, len(c.Application.Errors))

	for name, entry := range c.Application.Errors {
		key, ok := domain.ParseKey(name)
		if !ok {
			logger.Warn("configured error key is not in the catalog, skipping",
				slog.String("key", name),
			)

			continue
		}

		entries[key] = domain.ConfigEntry{
			Code:        entry.Code,
			Description: entry.Description,
			HTTPStatus:  entry.HTTPStatus,
		}
	}

	services := make(map[string]map[string]domain.Key)
	statuses := make(map[string]domain.Key)

	for section, mappings := range c.Application.Resolver {
		for external, target := range mappings {
			key, ok := domain.ParseKey(target)
			if !ok {
				logger.Warn("resolver target is not in the catalog, skipping",
					slog.String("section", section),
					slog.String("external", external),
					slog.String("target", target),
				)

				continue
			}

			if section == statusResolverName {
				statuses[external] = key
				continue
			}

			if services[section] == nil {
				services[section] = make(map[string]domain.Key, len(mappings))
			}

			services[section][external] = key
		}
	}

	tables, err := domain.NewTables(entries, services, statuses, logger)
	if err != nil {
		return nil, fmt.Errorf("building error tables: %w", err)
	}

	return tables, nil
}
