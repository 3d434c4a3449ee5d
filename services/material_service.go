package services

import (
	"backend/models"
	"context"
	"strings"
	"sync"

	"backend/utils"
)

// NoMaterialCode is the sentinel a frontend element carries when no material
// was assigned; resolution is skipped entirely for it.
const NoMaterialCode = "unknown"

// MaterialService resolves material codes against the calc backend,
// memoizing every successful lookup for the remainder of a run. Entries are
// never evicted; negative results are not cached, so a later resolve of the
// same code is retried.
type MaterialService struct {
	client CalcClient

	mu    sync.Mutex
	cache map[string]*models.Material
}

func NewMaterialService(client CalcClient) *MaterialService {
	return &MaterialService{
		client: client,
		cache:  make(map[string]*models.Material),
	}
}

// Resolve returns the material for a code, fetching it remotely on a cache
// miss. A nil material with nil error means not-found (or the "unknown"
// sentinel, which never errors).
func (s *MaterialService) Resolve(ctx context.Context, code string) (*models.Material, error) {
	if code == "" || strings.EqualFold(code, NoMaterialCode) {
		return nil, nil
	}

	s.mu.Lock()
	if material, ok := s.cache[code]; ok {
		s.mu.Unlock()
		return material, nil
	}
	s.mu.Unlock()

	callCtx, cancel := utils.GetRemoteCallContext(ctx)
	defer cancel()

	material, err := s.client.GetMaterialByCode(callCtx, code)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.cache[code] = material
	s.mu.Unlock()

	return material, nil
}

// Cached reports whether a code has already been resolved in this run.
func (s *MaterialService) Cached(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cache[code]
	return ok
}
