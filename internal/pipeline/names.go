package pipeline

import (
	"context"
	"log/slog"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

// NameService resolves type names from three layers in order: the static
// table from configuration, the cache, and the live resolver. Cache and
// resolver are optional; their failures degrade to fewer resolved names
// rather than erroring the lookup.
type NameService struct {
	static   map[int64]string
	cache    domain.NameCache
	resolver NameResolver
	logger   *slog.Logger
}

// NewNameService creates a NameService. cache and resolver may be nil.
func NewNameService(static map[int64]string, cache domain.NameCache, resolver NameResolver, logger *slog.Logger) *NameService {
	if static == nil {
		static = map[int64]string{}
	}
	return &NameService{
		static:   static,
		cache:    cache,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "names")),
	}
}

// ResolveNames implements NameResolver. IDs not known to any layer stay
// absent from the result. Freshly resolved names are written back to the
// cache when one is configured.
func (s *NameService) ResolveNames(ctx context.Context, typeIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(typeIDs))
	var missing []int64
	for _, id := range typeIDs {
		if name, ok := s.static[id]; ok {
			names[id] = name
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 && s.cache != nil {
		cached, err := s.cache.GetNames(ctx, missing)
		if err != nil {
			s.logger.WarnContext(ctx, "name cache lookup failed", slog.String("error", err.Error()))
		} else {
			still := missing[:0]
			for _, id := range missing {
				if name, ok := cached[id]; ok {
					names[id] = name
					continue
				}
				still = append(still, id)
			}
			missing = still
		}
	}

	if len(missing) > 0 && s.resolver != nil {
		resolved, err := s.resolver.ResolveNames(ctx, missing)
		if err != nil {
			s.logger.WarnContext(ctx, "live name resolution failed",
				slog.Int("ids", len(missing)),
				slog.String("error", err.Error()),
			)
			return names, nil
		}
		for id, name := range resolved {
			names[id] = name
		}
		if s.cache != nil && len(resolved) > 0 {
			if err := s.cache.SetNames(ctx, resolved); err != nil {
				s.logger.WarnContext(ctx, "name cache write failed", slog.String("error", err.Error()))
			}
		}
	}

	return names, nil
}
