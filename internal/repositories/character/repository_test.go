package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/clock"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/pkg/idgen"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/redis"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character"
)

// RepositoryTestSuite runs the same behaviour checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *clock.Fixed
	newRepo func(s *RepositoryTestSuite) character.Repository
	repo    character.Repository
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(s *RepositoryTestSuite) character.Repository {
			mr := miniredis.RunT(s.T())
			client, err := redis.NewClient(mr.Addr(), nil)
			s.Require().NoError(err)

			repo, err := character.NewRedis(&character.RedisConfig{
				Client:      client,
				Clock:       s.clock,
				IDGenerator: idgen.NewSequential(idgen.PrefixCharacter),
			})
			s.Require().NoError(err)
			return repo
		},
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(s *RepositoryTestSuite) character.Repository {
			db, err := character.OpenSQLite(character.MemoryDSN)
			s.Require().NoError(err)
			s.T().Cleanup(func() { _ = db.Close() })

			repo, err := character.NewSQLite(s.ctx, &character.SQLiteConfig{
				DB:          db,
				Clock:       s.clock,
				IDGenerator: idgen.NewSequential(idgen.PrefixCharacter),
			})
			s.Require().NoError(err)
			return repo
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &clock.Fixed{At: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	s.repo = s.newRepo(s)
}

func (s *RepositoryTestSuite) newCharacter(name, playerID string) *coc.Character {
	var attrs coc.Attributes
	attrs.Set(coc.AttributeStrength, 60)
	attrs.Set(coc.AttributeEducation, 80)

	return &coc.Character{
		PlayerID:   playerID,
		Identity:   coc.Identity{Name: name, Player: playerID, Occupation: "antiquarian", Age: 30},
		Attributes: attrs,
		Skills:     []coc.Skill{{ID: "appraise", BaseValue: 5, OccupationValue: 60, TotalValue: 65}},
		Finance:    coc.Finance{CreditRating: 40, SpendingLevel: 10, Cash: 80, Assets: 2000},
	}
}

func (s *RepositoryTestSuite) TestCreateGeneratesIDAndTimestamps() {
	out, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.newCharacter("Harvey", "player_1")})
	s.Require().NoError(err)
	s.Equal("char_1", out.Character.ID)
	s.Equal(coc.CurrentSchemaVersion, out.Character.SchemaVersion)
	s.True(out.Character.CreatedAt.Equal(s.clock.At))

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "char_1"})
	s.Require().NoError(err)
	s.Equal("Harvey", got.Character.Identity.Name)
	s.Equal(60, got.Character.Attributes.Strength.Value)
	s.Equal(30, got.Character.Attributes.Strength.HalfValue)
	s.Equal(65, got.Character.Skills[0].TotalValue)
	s.Equal(2000.0, got.Character.Finance.Assets)
}

func (s *RepositoryTestSuite) TestCreateDuplicate() {
	c := s.newCharacter("Harvey", "player_1")
	c.ID = "char_fixed"
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: c})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, character.CreateInput{Character: c})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestUpdateKeepsCreation() {
	out, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.newCharacter("Harvey", "player_1")})
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	changed := *out.Character
	changed.Identity.Name = "Harvey Walters"
	changed.CreatedAt = time.Time{}

	updated, err := s.repo.Update(s.ctx, character.UpdateInput{Character: &changed})
	s.Require().NoError(err)
	s.True(updated.Character.CreatedAt.Equal(out.Character.CreatedAt))
	s.True(updated.Character.UpdatedAt.Equal(s.clock.At))

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: out.Character.ID})
	s.Require().NoError(err)
	s.Equal("Harvey Walters", got.Character.Identity.Name)

	missing := s.newCharacter("Nobody", "player_1")
	missing.ID = "char_missing"
	_, err = s.repo.Update(s.ctx, character.UpdateInput{Character: missing})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Update(s.ctx, character.UpdateInput{Character: s.newCharacter("No ID", "player_1")})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestListByPlayerID() {
	for _, name := range []string{"Harvey", "Lucy", "Wendy"} {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.newCharacter(name, "player_1")})
		s.Require().NoError(err)
		s.clock.Advance(time.Minute)
	}
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.newCharacter("Other", "player_2")})
	s.Require().NoError(err)

	out, err := s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Require().Len(out.Characters, 3)
	s.Equal("Harvey", out.Characters[0].Identity.Name)
	s.Equal("Wendy", out.Characters[2].Identity.Name)

	empty, err := s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{PlayerID: "player_3"})
	s.Require().NoError(err)
	s.Empty(empty.Characters)

	_, err = s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	out, err := s.repo.Create(s.ctx, character.CreateInput{Character: s.newCharacter("Harvey", "player_1")})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: out.Character.ID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, character.GetInput{ID: out.Character.ID})
	s.True(errors.IsNotFound(err))

	list, err := s.repo.ListByPlayerID(s.ctx, character.ListByPlayerIDInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Empty(list.Characters)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{ID: out.Character.ID})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, character.GetInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{})
	s.True(errors.IsInvalidArgument(err))
}
