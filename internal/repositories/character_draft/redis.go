package characterdraft

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	redisclient "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/redis"
)

const (
	draftKeyPrefix      = "coc:draft:"
	playerMappingPrefix = "coc:draft:player:"

	// DefaultTTL is how long an untouched draft survives
	DefaultTTL = 7 * 24 * time.Hour

	errDraftNil      = "draft cannot be nil"
	errDraftIDEmpty  = "draft ID cannot be empty"
	errPlayerIDEmpty = "player ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// RedisConfig contains configuration for the Redis draft repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	// TTL defaults to DefaultTTL
	TTL time.Duration
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Client == nil {
		vb.RequiredField("Client")
	}
	if cfg.TTL < 0 {
		vb.InvalidField("TTL", "cannot be negative")
	}
	return vb.Build()
}

// NewRedis creates a new Redis-backed draft repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{client: cfg.Client, clock: c, ttl: ttl}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateDraft(input.Draft); err != nil {
		return nil, err
	}
	if input.Draft.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	playerKey := playerMappingPrefix + input.Draft.PlayerID
	existingID, err := r.client.Get(ctx, playerKey).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrap(err, "failed to check existing draft")
	}

	draft := *input.Draft
	draft.ExpiresAt = r.clock.Now().Add(r.ttl).Unix()
	data, err := json.Marshal(&draft)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal draft")
	}

	pipe := r.client.TxPipeline()
	if existingID != "" && existingID != draft.ID {
		pipe.Del(ctx, draftKeyPrefix+existingID)
		slog.Info("Replacing player draft",
			"player_id", draft.PlayerID,
			"old_draft_id", existingID,
			"draft_id", draft.ID,
		)
	}
	pipe.Set(ctx, draftKeyPrefix+draft.ID, data, r.ttl)
	pipe.Set(ctx, playerKey, draft.ID, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create draft")
	}

	return &CreateOutput{Draft: &draft}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	result, err := r.client.Get(ctx, draftKeyPrefix+input.ID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("draft with ID %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get draft")
	}

	var draft coc.CharacterDraft
	if err := json.Unmarshal(result, &draft); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal draft")
	}

	return &GetOutput{Draft: &draft}, nil
}

func (r *redisRepository) GetByPlayerID(ctx context.Context, input GetByPlayerIDInput) (*GetByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	playerKey := playerMappingPrefix + input.PlayerID
	draftID, err := r.client.Get(ctx, playerKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no draft found for player %s", input.PlayerID)
		}
		return nil, errors.Wrap(err, "failed to get player draft mapping")
	}

	out, err := r.Get(ctx, GetInput{ID: draftID})
	if err != nil {
		if errors.IsNotFound(err) {
			// the draft expired before its mapping
			r.client.Del(ctx, playerKey)
		}
		return nil, err
	}

	return &GetByPlayerIDOutput{Draft: out.Draft}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateDraft(input.Draft); err != nil {
		return nil, err
	}

	key := draftKeyPrefix + input.Draft.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("draft with ID %s not found", input.Draft.ID)
	}

	draft := *input.Draft
	draft.ExpiresAt = r.clock.Now().Add(r.ttl).Unix()
	data, err := json.Marshal(&draft)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal draft")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, r.ttl)
	if draft.PlayerID != "" {
		pipe.Expire(ctx, playerMappingPrefix+draft.PlayerID, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to update draft")
	}

	return &UpdateOutput{Draft: &draft}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	out, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, draftKeyPrefix+input.ID)
	if out.Draft.PlayerID != "" {
		playerKey := playerMappingPrefix + out.Draft.PlayerID
		// only drop the mapping when it still points at this draft
		if current, err := r.client.Get(ctx, playerKey).Result(); err == nil && current == input.ID {
			pipe.Del(ctx, playerKey)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to delete draft")
	}

	return &DeleteOutput{}, nil
}

func validateDraft(d *coc.CharacterDraft) error {
	if d == nil {
		return errors.InvalidArgument(errDraftNil)
	}
	if d.ID == "" {
		return errors.InvalidArgument(errDraftIDEmpty)
	}
	return nil
}
