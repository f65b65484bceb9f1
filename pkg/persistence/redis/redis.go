package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Layr-Labs/aa-multisig-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixAccount     = "aa:account:"
	keyPrefixFactory     = "aa:factory:"
	keySchemaVersion     = "aa:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Per-chain index sets, Redis has no prefix iteration.
	keySetAccounts  = "aa:accounts:index:"
	keySetFactories = "aa:factories:index:"
)

// RedisPersistence stores deployment records in Redis so several operators can share them.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is prepended to every key, e.g. "team-a:" gives "team-a:aa:account:...".
	KeyPrefix string
}

// NewRedisPersistence connects to Redis and initializes the schema version.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis persistence initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rp, nil
}

func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

// initSchema initializes or validates the schema version
func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

func (r *RedisPersistence) checkOpen() error {
	if r.closed {
		return persistence.ErrStoreClosed
	}
	return nil
}

// save writes the record and adds its address to the chain index in one pipeline.
func (r *RedisPersistence) save(prefix, indexPrefix string, chainId uint64, address common.Address, data []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkOpen(); err != nil {
		return err
	}

	ctx := context.Background()
	key := r.prefixKey(prefix + persistence.RecordKey(chainId, address))
	indexKey := r.prefixKey(fmt.Sprintf("%s%d", indexPrefix, chainId))

	pipe := r.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, indexKey, strings.ToLower(address.Hex()))
	_, err := pipe.Exec(ctx)
	return err
}

// load returns nil data when the key does not exist.
func (r *RedisPersistence) load(prefix string, chainId uint64, address common.Address) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	data, err := r.client.Get(context.Background(), r.prefixKey(prefix+persistence.RecordKey(chainId, address))).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// list fetches every indexed record of a chain with MGET and prunes stale index entries.
func (r *RedisPersistence) list(prefix, indexPrefix string, chainId uint64) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	indexKey := r.prefixKey(fmt.Sprintf("%s%d", indexPrefix, chainId))

	addresses, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", indexKey, err)
	}
	if len(addresses) == 0 {
		return nil, nil
	}

	keys := make([]string, len(addresses))
	for i, address := range addresses {
		keys[i] = r.prefixKey(fmt.Sprintf("%s%d:%s", prefix, chainId, address))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	var out []string
	for i, val := range values {
		if val == nil {
			r.client.SRem(ctx, indexKey, addresses[i])
			continue
		}
		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for record", "key", keys[i])
			continue
		}
		out = append(out, data)
	}
	return out, nil
}

func (r *RedisPersistence) remove(prefix, indexPrefix string, chainId uint64, address common.Address) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkOpen(); err != nil {
		return err
	}

	ctx := context.Background()
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.prefixKey(prefix+persistence.RecordKey(chainId, address)))
	pipe.SRem(ctx, r.prefixKey(fmt.Sprintf("%s%d", indexPrefix, chainId)), strings.ToLower(address.Hex()))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisPersistence) SaveAccount(record *persistence.AccountRecord) error {
	data, err := persistence.MarshalAccountRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal AccountRecord: %w", err)
	}
	if err := r.save(keyPrefixAccount, keySetAccounts, record.ChainId, record.Address, data); err != nil {
		return fmt.Errorf("failed to save AccountRecord: %w", err)
	}
	return nil
}

func (r *RedisPersistence) LoadAccount(chainId uint64, address common.Address) (*persistence.AccountRecord, error) {
	data, err := r.load(keyPrefixAccount, chainId, address)
	if err != nil {
		return nil, fmt.Errorf("failed to load AccountRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return persistence.UnmarshalAccountRecord(data)
}

func (r *RedisPersistence) ListAccounts(chainId uint64) ([]*persistence.AccountRecord, error) {
	values, err := r.list(keyPrefixAccount, keySetAccounts, chainId)
	if err != nil {
		return nil, fmt.Errorf("failed to list AccountRecords: %w", err)
	}

	records := make([]*persistence.AccountRecord, 0, len(values))
	for _, data := range values {
		record, err := persistence.UnmarshalAccountRecord([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal AccountRecord, skipping", "error", err)
			continue
		}
		records = append(records, record)
	}
	persistence.SortAccounts(records)
	return records, nil
}

func (r *RedisPersistence) DeleteAccount(chainId uint64, address common.Address) error {
	return r.remove(keyPrefixAccount, keySetAccounts, chainId, address)
}

func (r *RedisPersistence) SaveFactory(record *persistence.FactoryRecord) error {
	data, err := persistence.MarshalFactoryRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal FactoryRecord: %w", err)
	}
	if err := r.save(keyPrefixFactory, keySetFactories, record.ChainId, record.Address, data); err != nil {
		return fmt.Errorf("failed to save FactoryRecord: %w", err)
	}
	return nil
}

func (r *RedisPersistence) LoadFactory(chainId uint64, address common.Address) (*persistence.FactoryRecord, error) {
	data, err := r.load(keyPrefixFactory, chainId, address)
	if err != nil {
		return nil, fmt.Errorf("failed to load FactoryRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return persistence.UnmarshalFactoryRecord(data)
}

func (r *RedisPersistence) ListFactories(chainId uint64) ([]*persistence.FactoryRecord, error) {
	values, err := r.list(keyPrefixFactory, keySetFactories, chainId)
	if err != nil {
		return nil, fmt.Errorf("failed to list FactoryRecords: %w", err)
	}

	records := make([]*persistence.FactoryRecord, 0, len(values))
	for _, data := range values {
		record, err := persistence.UnmarshalFactoryRecord([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal FactoryRecord, skipping", "error", err)
			continue
		}
		records = append(records, record)
	}
	persistence.SortFactories(records)
	return records, nil
}

func (r *RedisPersistence) DeleteFactory(chainId uint64, address common.Address) error {
	return r.remove(keyPrefixFactory, keySetFactories, chainId, address)
}

// Close is idempotent.
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis persistence closed")
	return nil
}

// HealthCheck pings Redis and checks that the schema version is present.
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkOpen(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if err == redis.Nil {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}

	return nil
}
