package sheetio_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/i18n"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/conversion"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/sheetio"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	service sheetio.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	translator, err := i18n.Load()
	s.Require().NoError(err)

	s.service, err = sheetio.New(&sheetio.Config{
		Converter:  conversion.NewDraftConverter(nil),
		Translator: translator,
	})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) record() *coc.Character {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	attrs := coc.Attributes{}
	for i, key := range coc.AllAttributes {
		attrs.Set(key, 40+i*5)
	}

	return &coc.Character{
		SchemaVersion: coc.CurrentSchemaVersion,
		ID:            "char_1",
		PlayerID:      "player_1",
		Identity: coc.Identity{
			Name:       "Harvey Walters",
			Player:     "player_1",
			Occupation: "journalist",
			Age:        42,
			Residence:  "Arkham",
		},
		Attributes: attrs,
		Derived: coc.DerivedStats{
			HitPoints: coc.DerivedValue{Maximum: 10, Current: 8, Modifiers: []coc.Modifier{
				{Name: "wounded", Value: -2, CreatedAt: created},
			}},
			Sanity:      coc.DerivedValue{Maximum: 65, Current: 65, Modifiers: []coc.Modifier{}},
			MagicPoints: coc.DerivedValue{Maximum: 13, Current: 13, Modifiers: []coc.Modifier{}},
			Luck:        coc.DerivedValue{Maximum: 50, Current: 50, Modifiers: []coc.Modifier{}},
			Movement:    coc.Movement{Base: 7, Running: 35, Climbing: 3, Swimming: 3, Modifiers: []coc.Modifier{}},
			Build:       0,
			DamageBonus: "0",
		},
		Skills: []coc.Skill{
			{ID: coc.SkillCreditRating, OccupationValue: 25, TotalValue: 25},
			{ID: "spot_hidden", BaseValue: 25, PersonalValue: 20, TotalValue: 50, Modifiers: []coc.SkillModifier{
				{Name: "glasses", Value: 5, CreatedAt: created},
			}},
			{ID: "art_craft_custom_pottery", BaseValue: 5, PersonalValue: 10, TotalValue: 15, ParentSkillID: "art_craft", CustomName: "Pottery", IsCustom: true},
		},
		Finance:   coc.Finance{CreditRating: 25, SpendingLevel: 10, Cash: 50, Assets: 1250},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
}

func (s *ServiceTestSuite) TestNewRequiresDependencies() {
	_, err := sheetio.New(&sheetio.Config{})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = sheetio.New(nil)
	s.Error(err)
}

func (s *ServiceTestSuite) TestRoundTrip() {
	record := s.record()

	exported, err := s.service.Export(s.ctx, &sheetio.ExportInput{Character: record})
	s.Require().NoError(err)
	s.Contains(string(exported.Data), "schemaVersion: 2")
	s.Contains(string(exported.Data), "halfValue:")

	imported, err := s.service.Import(s.ctx, &sheetio.ImportInput{Data: exported.Data})
	s.Require().NoError(err)

	s.Equal(coc.CurrentSchemaVersion, imported.SourceVersion)
	s.Equal(record, imported.Character)
}

func (s *ServiceTestSuite) TestExportStampsCurrentVersion() {
	record := s.record()
	record.SchemaVersion = 1

	exported, err := s.service.Export(s.ctx, &sheetio.ExportInput{Character: record})
	s.Require().NoError(err)
	s.Contains(string(exported.Data), "schemaVersion: 2")
	s.Equal(1, record.SchemaVersion, "the caller's record is not modified")

	_, err = s.service.Export(s.ctx, &sheetio.ExportInput{})
	s.True(errors.IsInvalidArgument(err))
}

const legacyDocument = `schemaVersion: 1
id: char_legacy
identity:
  name: Ada Brooks
  player: player_7
  occupation: author
  age: 30
attributes:
  strength: 50
  constitution: 60
  size: 55
  dexterity: 65
  appearance: 45
  intelligence: 80
  power: 70
  education: 75
derived:
  hitPoints: 11
  sanity: 70
  magicPoints: 14
  luck: 55
  movement: 8
  build: 0
  damageBonus: "0"
skills:
  - id: credit_rating
    value: 30
  - id: library_use
    value: 60
createdAt: 2024-05-01T12:00:00Z
`

func (s *ServiceTestSuite) TestImportMigratesVersionOne() {
	out, err := s.service.Import(s.ctx, &sheetio.ImportInput{Data: []byte(legacyDocument)})
	s.Require().NoError(err)

	s.Equal(1, out.SourceVersion)
	c := out.Character
	s.Equal(coc.CurrentSchemaVersion, c.SchemaVersion)
	s.Equal("Ada Brooks", c.Identity.Name)

	s.Equal(coc.Attribute{Value: 75, HalfValue: 37, FifthValue: 15}, c.Attributes.Education)
	s.Equal(coc.Attribute{Value: 45, HalfValue: 22, FifthValue: 9}, c.Attributes.Appearance)

	s.Equal(11, c.Derived.HitPoints.Maximum)
	s.Equal(11, c.Derived.HitPoints.Current)
	s.Empty(c.Derived.HitPoints.Modifiers)
	s.Equal(8, c.Derived.Movement.Base)
	s.Equal(40, c.Derived.Movement.Running)

	s.Require().Len(c.Skills, 2)
	s.Equal(coc.Skill{ID: "library_use", BaseValue: 60, TotalValue: 60}, c.Skills[1])

	s.Equal(coc.Finance{CreditRating: 30, SpendingLevel: 10, Cash: 60, Assets: 1500}, c.Finance)
	s.Equal(c.CreatedAt, c.UpdatedAt)
	s.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), c.CreatedAt.UTC())
}

func (s *ServiceTestSuite) TestImportReportsMissingFields() {
	doc := `schemaVersion: 2
identity:
  name: Nobody
  occupation: author
attributes:
  strength: {value: 50, halfValue: 25, fifthValue: 10}
derived:
  hitPoints: {maximum: 10, current: 10}
skills:
  - id: swim
    baseValue: 20
    personalValue: 0
    occupationValue: 0
createdAt: 2024-05-01T12:00:00Z
`
	_, err := s.service.Import(s.ctx, &sheetio.ImportInput{Data: []byte(doc)})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	fields := errors.FieldErrors(err)
	for _, field := range []string{
		"identity.player",
		"identity.age",
		"attributes.power",
		"derived.hitPoints.modifiers",
		"derived.sanity",
		"derived.movement",
		"skills[0].totalValue",
		"finance",
		"updatedAt",
	} {
		s.Contains(fields, field)
	}
	s.NotContains(fields, "attributes.strength")
	s.NotContains(fields, "createdAt")
}

func (s *ServiceTestSuite) TestImportRejectsInconsistentRecords() {
	record := s.record()
	record.Attributes.Strength = coc.Attribute{Value: 60, HalfValue: 10, FifthValue: 12}
	record.Skills = append(record.Skills, coc.Skill{ID: "spot_hidden", BaseValue: 25, TotalValue: 25})

	exported, err := s.service.Export(s.ctx, &sheetio.ExportInput{Character: record})
	s.Require().NoError(err)

	_, err = s.service.Import(s.ctx, &sheetio.ImportInput{Data: exported.Data})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	fields := errors.FieldErrors(err)
	s.Contains(fields, "attributes.strength")
	s.Contains(fields, "skills[3].id")
}

func (s *ServiceTestSuite) TestImportRejectsBadDocuments() {
	testCases := []struct {
		name  string
		doc   string
		check func(error) bool
	}{
		{name: "empty", doc: "  \n", check: errors.IsInvalidArgument},
		{name: "not yaml", doc: "identity: [unterminated\n", check: errors.IsInvalidArgument},
		{name: "not a mapping", doc: "- one\n- two\n", check: errors.IsInvalidArgument},
		{name: "no version", doc: "id: char_1\n", check: errors.IsInvalidArgument},
		{name: "version not a number", doc: "schemaVersion: two\n", check: errors.IsInvalidArgument},
		{name: "version zero", doc: "schemaVersion: 0\n", check: errors.IsInvalidArgument},
		{name: "newer version", doc: "schemaVersion: 3\n", check: errors.IsFailedPrecondition},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.Import(s.ctx, &sheetio.ImportInput{Data: []byte(tc.doc)})
			s.Require().Error(err)
			s.True(tc.check(err), "unexpected error: %v", err)
		})
	}
}

func (s *ServiceTestSuite) TestRenderPDF() {
	for _, locale := range []string{"en", "fr"} {
		out, err := s.service.RenderPDF(s.ctx, &sheetio.RenderPDFInput{Character: s.record(), Locale: locale})
		s.Require().NoError(err)
		s.Greater(len(out.Data), 100)
		s.True(strings.HasPrefix(string(out.Data), "%PDF"))
	}

	_, err := s.service.RenderPDF(s.ctx, &sheetio.RenderPDFInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
