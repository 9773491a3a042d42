package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/bsm/redislock"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
	"time"
)

type DB int
type ReleaseLock func() error

var ErrNotFound = errors.New("redis: document not found")

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
	lockRetries    int
}

var ctx = context.Background()

type Config struct {
	LockExpirationSeconds   int     `envconfig:"CCTA_REDIS_LOCK_EXPIRATION" default:"3"`
	LockRetries             int     `envconfig:"CCTA_REDIS_LOCK_RETRIES" default:"20"`
	Host                    string  `envconfig:"CCTA_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"CCTA_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"CCTA_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"CCTA_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"CCTA_REDIS_AUTH_PASSWORD" default:"0"`
	AuthRequired            bool    `envconfig:"CCTA_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"CCTA_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"CCTA_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	cfg, err := readEnvironment()
	if err != nil {
		return Client{}, err
	}
	var client redis.UniversalClient
	if cfg.HAMode {
		client = CreateClusterClient(cfg, db)
	} else {
		client = CreateClient(cfg, db)
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
		lockRetries:    cfg.LockRetries,
	}, nil
}

// Wrap builds a client over an existing connection.
func Wrap(client redis.UniversalClient, lockExpiration time.Duration) Client {
	return Client{client: client, lockExpiration: lockExpiration, lockRetries: 20}
}

func CreateClusterClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(cfg.HASentinelSocketTimeout * float32(time.Second))
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func CreateClient(cfg *Config, db DB) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	options := redis.Options{
		Addr:       addr,
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// GetRaw returns the stored JSON bytes, or ErrNotFound.
func (client *Client) GetRaw(redisKey string) ([]byte, error) {
	b, err := client.client.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (client *Client) GetDocument(redisKey string, doc interface{}) error {
	b, err := client.GetRaw(redisKey)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, doc); err != nil {
		return fmt.Errorf("decode %s: %w", redisKey, err)
	}
	return nil
}

// UpdateDocument loads redisKey into doc, runs update and stores the
// result under the key lock. Only the fields update changed are written
// back; fields of the stored JSON that doc does not know are kept.
func (client *Client) UpdateDocument(redisKey string, doc interface{}, update func() error) (err error) {
	releaseLock, err := client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = releaseLock()
			return
		}
		err = releaseLock()
	}()

	raw, err := client.GetRaw(redisKey)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(raw, doc); err != nil {
		return fmt.Errorf("decode %s: %w", redisKey, err)
	}
	before, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err = update(); err != nil {
		return err
	}
	after, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return fmt.Errorf("diff %s: %w", redisKey, err)
	}
	merged, err := jsonpatch.MergePatch(raw, patch)
	if err != nil {
		return fmt.Errorf("merge %s: %w", redisKey, err)
	}
	return client.SaveRaw(redisKey, merged)
}

// PatchDocument applies a JSON merge patch to the stored document and
// returns the new contents.
func (client *Client) PatchDocument(redisKey string, patch []byte) (result []byte, err error) {
	releaseLock, err := client.Lock(redisKey)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = releaseLock()
			return
		}
		err = releaseLock()
	}()

	raw, err := client.GetRaw(redisKey)
	if err != nil {
		return nil, err
	}
	result, err = jsonpatch.MergePatch(raw, patch)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", redisKey, err)
	}
	if err = client.SaveRaw(redisKey, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (client *Client) Lock(redisKey string) (ReleaseLock, error) {
	lockCl := redislock.New(client.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), client.lockRetries)
	lockKey := fmt.Sprintf("lock:%s", redisKey)
	lock, err := lockCl.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) SaveDoc(redisKey string, document interface{}) error {
	b, err := json.Marshal(document)
	if err != nil {
		return err
	}
	return client.SaveRaw(redisKey, b)
}

func (client *Client) SaveRaw(redisKey string, b []byte) error {
	return client.client.Set(ctx, redisKey, b, 0).Err()
}

func (client *Client) Delete(redisKey string) error {
	return client.client.Del(ctx, redisKey).Err()
}

func (client *Client) Ping() error {
	return client.client.Ping(ctx).Err()
}

func (client *Client) Close() error {
	return client.client.Close()
}

func readEnvironment() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
