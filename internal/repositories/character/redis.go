package character

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/idgen"
	redisclient "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/redis"
)

// Redis key layout: one JSON document per character and one id set per
// player
const (
	RedisKeyPrefix         = "coc:character:"
	RedisPlayerIndexPrefix = "coc:character:player:"
)

type redisRepository struct {
	client redisclient.Client
	stamp  stamp
}

// RedisConfig contains configuration for the Redis character repository
type RedisConfig struct {
	Client      redisclient.Client
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Client == nil {
		vb.RequiredField("Client")
	}
	return vb.Build()
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		stamp:  newStamp(cfg.Clock, cfg.IDGenerator),
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	char, err := r.stamp.prepareCreate(input.Character)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal character")
	}

	key := RedisKeyPrefix + char.ID
	created, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}
	if !created {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", char.ID)
	}

	if char.PlayerID != "" {
		if err := r.client.SAdd(ctx, RedisPlayerIndexPrefix+char.PlayerID, char.ID).Err(); err != nil {
			return nil, errors.Wrap(err, "failed to index character")
		}
	}

	return &CreateOutput{Character: char}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, RedisKeyPrefix+input.ID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get character")
	}

	var char coc.Character
	if err := json.Unmarshal(result, &char); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal character")
	}

	return &GetOutput{Character: &char}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Character.ID})
	if err != nil {
		return nil, err
	}

	char := r.stamp.prepareUpdate(input.Character, existing.Character)
	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal character")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, RedisKeyPrefix+char.ID, data, 0)
	if old := existing.Character.PlayerID; old != char.PlayerID {
		if old != "" {
			pipe.SRem(ctx, RedisPlayerIndexPrefix+old, char.ID)
		}
		if char.PlayerID != "" {
			pipe.SAdd(ctx, RedisPlayerIndexPrefix+char.PlayerID, char.ID)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to update character")
	}

	return &UpdateOutput{Character: char}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	existing, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, RedisKeyPrefix+input.ID)
	if playerID := existing.Character.PlayerID; playerID != "" {
		pipe.SRem(ctx, RedisPlayerIndexPrefix+playerID, input.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByPlayerID(ctx context.Context, input ListByPlayerIDInput) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	indexKey := RedisPlayerIndexPrefix + input.PlayerID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read index %s", indexKey)
	}

	characters := make([]*coc.Character, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "Character missing, cleaning up index",
					"character_id", id,
					"index_key", indexKey,
				)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get character %s", id)
		}
		characters = append(characters, out.Character)
	}

	sortByCreation(characters)
	slog.DebugContext(ctx, "Listed characters",
		"player_id", input.PlayerID,
		"count", len(characters),
	)
	return &ListByPlayerIDOutput{Characters: characters}, nil
}
