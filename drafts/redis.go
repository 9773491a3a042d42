package drafts

import (
	"cctareport.com/engine/logger"
	"cctareport.com/engine/redis"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"strconv"
	"time"
)

const DraftsDB redis.DB = 0

type RedisStore struct {
	client redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

func NewRedisStore(client redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.NewLogger("Drafts"),
		now:    time.Now,
	}
}

func fingerprintKey(key string) string {
	return fmt.Sprintf("%s-fingerprint", key)
}

// unchanged reports whether the stored draft exists and has fingerprint fp.
func (s *RedisStore) unchanged(key string, fp uint64) bool {
	stored, err := s.client.GetRaw(fingerprintKey(key))
	if err != nil || string(stored) != strconv.FormatUint(fp, 10) {
		return false
	}
	_, err = s.client.GetRaw(key)
	return err == nil
}

// Save skips the write when the stored draft already has the same content.
func (s *RedisStore) Save(key string, draft Draft) error {
	draftLogger := s.logger.With().Str("key", key).Logger()

	fp, err := Fingerprint(draft)
	if err != nil {
		return err
	}
	if s.unchanged(key, fp) {
		draftLogger.Debug().Msg("Draft unchanged, skipping save")
		return nil
	}

	draft.SavedAt = s.now().UTC()
	if err := s.client.SaveDoc(key, draft); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	if err := s.client.SaveRaw(fingerprintKey(key), []byte(strconv.FormatUint(fp, 10))); err != nil {
		return fmt.Errorf("save draft fingerprint: %w", err)
	}
	draftLogger.Debug().Msg("Draft saved")
	return nil
}

func (s *RedisStore) Load(key string) (Draft, error) {
	b, err := s.client.GetRaw(key)
	if errors.Is(err, redis.ErrNotFound) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	return decode(b)
}

func (s *RedisStore) Patch(key string, patch []byte) (Draft, error) {
	var probe map[string]interface{}
	if err := json.Unmarshal(patch, &probe); err != nil {
		return Draft{}, fmt.Errorf("patch draft: %w", err)
	}

	b, err := s.client.PatchDocument(key, patch)
	if errors.Is(err, redis.ErrNotFound) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	draft, err := decode(b)
	if err != nil {
		return Draft{}, err
	}
	if fp, err := Fingerprint(draft); err == nil {
		if err := s.client.SaveRaw(fingerprintKey(key), []byte(strconv.FormatUint(fp, 10))); err != nil {
			return Draft{}, fmt.Errorf("save draft fingerprint: %w", err)
		}
	}
	return draft, nil
}

func (s *RedisStore) Delete(key string) error {
	if err := s.client.Delete(key); err != nil {
		return err
	}
	return s.client.Delete(fingerprintKey(key))
}
