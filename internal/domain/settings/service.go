package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// API is the slice of the upstream client this service uses.
type API interface {
	GetSettings(ctx context.Context, token string) (*upstream.ClinicSettings, error)
	SaveSettings(ctx context.Context, token string, s upstream.ClinicSettings) (*upstream.ClinicSettings, error)
}

// ErrMiss is returned by a cache when the key is absent.
var ErrMiss = errors.New("cache miss")

// Cache holds the last good settings document so the dashboard keeps its
// doctor roster when the upstream is unreachable.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type RedisCache struct {
	c *redis.Client
}

func NewRedisCache(c *redis.Client) *RedisCache { return &RedisCache{c: c} }

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

const (
	cacheKey = "clinic:settings"
	cacheTTL = 7 * 24 * time.Hour
)

type Service struct {
	api        API
	cache      Cache // nil when no Redis is configured
	clinicName string
	logger     zerolog.Logger
}

func NewService(api API, cache Cache, clinicName string, logger zerolog.Logger) *Service {
	return &Service{
		api:        api,
		cache:      cache,
		clinicName: clinicName,
		logger:     logger.With().Str("component", "settings").Logger(),
	}
}

// Get returns the clinic settings, preferring the upstream document,
// falling back to the cached copy, and finally to the built-in defaults.
func (s *Service) Get(ctx context.Context, token string) (*Settings, error) {
	raw, err := s.api.GetSettings(ctx, token)
	if err == nil {
		out := fromUpstream(*raw)
		if len(out.Doctors) == 0 {
			out = Defaults(s.clinicName)
		}
		s.store(ctx, out)
		return out, nil
	}
	if errors.Is(err, upstream.ErrUnauthorized) {
		return nil, err
	}

	if cached := s.load(ctx); cached != nil {
		s.logger.Warn().Err(err).Msg("settings fetch failed, serving cached copy")
		return cached, nil
	}
	s.logger.Warn().Err(err).Msg("settings fetch failed, serving defaults")
	return Defaults(s.clinicName), nil
}

// Save validates and writes the settings upstream, then refreshes the
// cache. Doctors added without an ID are assigned one here so appointment
// references stay stable across later renames.
func (s *Service) Save(ctx context.Context, token string, in Settings) (*Settings, error) {
	for i := range in.Doctors {
		if in.Doctors[i].ID == "" {
			in.Doctors[i].ID = uuid.New().String()
		}
	}

	raw, err := s.api.SaveSettings(ctx, token, toUpstream(in))
	if err != nil {
		return nil, err
	}
	out := fromUpstream(*raw)
	s.store(ctx, out)
	return out, nil
}

// Roster adapts the doctor registry for the appointment list's filter and
// grouping.
func (s *Service) Roster(ctx context.Context, token string) ([]appointment.DoctorRef, error) {
	cfg, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	refs := make([]appointment.DoctorRef, 0, len(cfg.Doctors))
	for _, d := range cfg.Doctors {
		refs = append(refs, appointment.DoctorRef{ID: d.ID, Name: d.Name})
	}
	return refs, nil
}

func (s *Service) store(ctx context.Context, cfg *Settings) {
	if s.cache == nil {
		return
	}
	buf, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, string(buf), cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("settings cache write failed")
	}
}

func (s *Service) load(ctx context.Context) *Settings {
	if s.cache == nil {
		return nil
	}
	val, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			s.logger.Warn().Err(err).Msg("settings cache read failed")
		}
		return nil
	}
	var cfg Settings
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		return nil
	}
	return &cfg
}
