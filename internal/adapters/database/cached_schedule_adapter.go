package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/repositories"
)

// CachedScheduleAdapter wraps a ScheduleRepository with caching. Schedules
// are read-only configuration owned by the practitioner directory, so a
// short TTL is the only invalidation needed.
type CachedScheduleAdapter struct {
	adapter repositories.ScheduleRepository
	cache   providers.CacheProvider
}

// NewCachedScheduleAdapter creates a new cached schedule adapter
func NewCachedScheduleAdapter(adapter repositories.ScheduleRepository, cache providers.CacheProvider) repositories.ScheduleRepository {
	return &CachedScheduleAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	scheduleByIDTTL  = 300 // 5 minutes for a single schedule
	scheduleListTTL  = 180 // 3 minutes for the full directory
	scheduleListKey  = "schedules:all"
	scheduleKeyScope = "schedule:%s"
)

func scheduleCacheKey(practitionerID string) string {
	return fmt.Sprintf(scheduleKeyScope, practitionerID)
}

// GetByPractitionerID retrieves a schedule with caching
func (a *CachedScheduleAdapter) GetByPractitionerID(ctx context.Context, practitionerID string) (*entities.PractitionerSchedule, error) {
	cacheKey := scheduleCacheKey(practitionerID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var schedule entities.PractitionerSchedule
		uerr := json.Unmarshal(cached, &schedule)
		if uerr == nil {
			return &schedule, nil
		}
		// If unmarshal fails, continue to fetch from DB
		log.Warn().Err(uerr).Str("practitioner_id", practitionerID).Msg("failed to unmarshal cached schedule")
	}

	schedule, err := a.adapter.GetByPractitionerID(ctx, practitionerID)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(schedule); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, scheduleByIDTTL); err != nil {
				log.Warn().Err(err).Str("practitioner_id", practitionerID).Msg("failed to cache schedule")
			}
		}
	}()

	return schedule, nil
}

// List retrieves all schedules with caching
func (a *CachedScheduleAdapter) List(ctx context.Context) ([]*entities.PractitionerSchedule, error) {
	if cached, err := a.cache.Get(ctx, scheduleListKey); err == nil {
		var schedules []*entities.PractitionerSchedule
		uerr := json.Unmarshal(cached, &schedules)
		if uerr == nil {
			return schedules, nil
		}
		log.Warn().Err(uerr).Msg("failed to unmarshal cached schedule list")
	}

	schedules, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(schedules); err == nil {
			if err := a.cache.Set(bgCtx, scheduleListKey, data, scheduleListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache schedule list")
			}
		}
	}()

	return schedules, nil
}
