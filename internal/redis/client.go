package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alex-sviridov/webserver/internal/config"
	"github.com/alex-sviridov/webserver/internal/stack"
	"github.com/redis/go-redis/v9"
)

var ErrOutputsNotFound = errors.New("stack outputs not found")

// errInvalidRecord marks stored values that are not stack outputs
var errInvalidRecord = errors.New("invalid stack outputs record")

// ClientInterface is the output store used by the CLI
type ClientInterface interface {
	PushStackOutputs(ctx context.Context, outputs StackOutputs, ttl time.Duration) error
	GetStackOutputs(ctx context.Context, stackName string) (*StackOutputs, error)
	ListStackOutputs(ctx context.Context) ([]StackOutputs, error)
	Close() error
}

// redisOperations is the subset of redis.Client the store relies on
type redisOperations interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

// Client stores stack outputs in Redis
type Client struct {
	ops redisOperations
}

// Config contains Redis connection settings
type Config struct {
	Address  string
	Password string
	DB       int
}

// StackOutputs is the record persisted for one deployed stack
type StackOutputs struct {
	Stack      string         `json:"stack"`
	Engine     string         `json:"engine"`
	Outputs    []stack.Output `json:"outputs"`
	DeployedAt time.Time      `json:"deployed_at"`
}

// NewClient creates a new Redis client
// Address can be either a Redis URL (redis://host:port) or just host:port
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var rdb *redis.Client

	opt, err := redis.ParseURL(cfg.Address)
	if err != nil {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	} else {
		// explicit settings win over the URL
		if cfg.Password != "" {
			opt.Password = cfg.Password
		}
		if cfg.DB != 0 {
			opt.DB = cfg.DB
		}
		rdb = redis.NewClient(opt)
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Client{ops: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.ops.Close()
}

// PushStackOutputs stores the outputs of a stack, replacing any previous record
func (c *Client) PushStackOutputs(ctx context.Context, outputs StackOutputs, ttl time.Duration) error {
	if outputs.Stack == "" {
		return fmt.Errorf("stack name is required")
	}

	data, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("failed to marshal stack outputs: %w", err)
	}

	if err := c.ops.Set(ctx, config.StackOutputsKey(outputs.Stack), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set stack outputs: %w", err)
	}
	return nil
}

// GetStackOutputs returns the stored outputs of a stack or ErrOutputsNotFound
func (c *Client) GetStackOutputs(ctx context.Context, stackName string) (*StackOutputs, error) {
	return c.getByKey(ctx, config.StackOutputsKey(stackName))
}

// ListStackOutputs returns every stored stack record. Keys that expired after
// the scan and records that cannot be decoded are skipped; any other error
// aborts the listing.
func (c *Client) ListStackOutputs(ctx context.Context) ([]StackOutputs, error) {
	var all []StackOutputs

	iter := c.ops.Scan(ctx, 0, config.StackOutputsPrefix+"*"+config.StackOutputsSuffix, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if !strings.HasSuffix(key, config.StackOutputsSuffix) {
			continue
		}
		outputs, err := c.getByKey(ctx, key)
		if errors.Is(err, ErrOutputsNotFound) || errors.Is(err, errInvalidRecord) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list stack outputs: %w", err)
		}
		all = append(all, *outputs)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan stack outputs: %w", err)
	}
	return all, nil
}

func (c *Client) getByKey(ctx context.Context, key string) (*StackOutputs, error) {
	data, err := c.ops.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrOutputsNotFound, key)
		}
		return nil, fmt.Errorf("failed to get stack outputs: %w", err)
	}

	var outputs StackOutputs
	if err := json.Unmarshal([]byte(data), &outputs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stack outputs: %w: %w", errInvalidRecord, err)
	}
	return &outputs, nil
}

var _ ClientInterface = (*Client)(nil)
