// Package catalog serves the static rules data: the skill list and the
// occupation list, embedded as YAML.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/occupation"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine/skills"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	skillsFile      = "data/skills.yaml"
	occupationsFile = "data/occupations.yaml"
)

type skillsDocument struct {
	Skills []coc.SkillDefinition `yaml:"skills"`
}

type occupationsDocument struct {
	Occupations []coc.Occupation `yaml:"occupations"`
}

// Catalog is an immutable, validated set of skills and occupations
type Catalog struct {
	skills      []coc.SkillDefinition
	skillIndex  map[string]int
	parents     map[string]string
	occupations []coc.Occupation
	occIndex    map[string]int
}

// Load returns the embedded catalog
func Load() (*Catalog, error) {
	return LoadFS(embedded)
}

// LoadFS reads skills.yaml and occupations.yaml from the data directory of fsys
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var sd skillsDocument
	if err := decode(fsys, skillsFile, &sd); err != nil {
		return nil, err
	}
	var od occupationsDocument
	if err := decode(fsys, occupationsFile, &od); err != nil {
		return nil, err
	}

	c, err := New(sd.Skills, od.Occupations)
	if err != nil {
		return nil, err
	}

	slog.Debug("Catalog loaded",
		"skills", len(c.skills),
		"occupations", len(c.occupations),
	)
	return c, nil
}

func decode(fsys fs.FS, name string, target any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", name)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return errors.WrapWithCode(err, errors.CodeDataLoss, fmt.Sprintf("failed to parse %s", name))
	}
	return nil
}

// New builds a catalog after checking every cross reference
func New(skillDefs []coc.SkillDefinition, occupations []coc.Occupation) (*Catalog, error) {
	c := &Catalog{
		skills:      append([]coc.SkillDefinition(nil), skillDefs...),
		skillIndex:  make(map[string]int, len(skillDefs)),
		parents:     map[string]string{},
		occupations: append([]coc.Occupation(nil), occupations...),
		occIndex:    make(map[string]int, len(occupations)),
	}

	sort.Slice(c.skills, func(i, j int) bool { return c.skills[i].ID < c.skills[j].ID })
	sort.Slice(c.occupations, func(i, j int) bool { return c.occupations[i].ID < c.occupations[j].ID })

	vb := errors.NewValidationBuilder()
	for i, def := range c.skills {
		if _, dup := c.skillIndex[def.ID]; dup || def.ID == "" {
			vb.Fieldf("skills", "duplicate or empty skill id %q", def.ID)
			continue
		}
		c.skillIndex[def.ID] = i
		if def.BaseAttribute != "" && !def.BaseAttribute.IsValid() {
			vb.Fieldf(def.ID, "unknown base attribute %q", def.BaseAttribute)
		}
		for _, spec := range def.Specializations {
			if !def.Specializable {
				vb.Fieldf(def.ID, "lists specializations but is not specializable")
				break
			}
			c.parents[spec.ID] = def.ID
		}
	}
	for _, required := range []string{coc.SkillCreditRating, coc.SkillCthulhuMythos, coc.SkillDodge, coc.SkillLanguageOwn} {
		if _, ok := c.skillIndex[required]; !ok {
			vb.Fieldf("skills", "missing required skill %s", required)
		}
	}

	for i, occ := range c.occupations {
		if _, dup := c.occIndex[occ.ID]; dup || occ.ID == "" {
			vb.Fieldf("occupations", "duplicate or empty occupation id %q", occ.ID)
			continue
		}
		c.occIndex[occ.ID] = i
		c.validateOccupation(occ, vb)
	}

	if err := vb.Build(); err != nil {
		return nil, errors.Wrap(err, "invalid catalog")
	}
	return c, nil
}

func (c *Catalog) validateOccupation(occ coc.Occupation, vb *errors.ValidationBuilder) {
	field := "occupations." + occ.ID

	if err := occupation.ValidateFormula(occ.OccupationPoints); err != nil {
		vb.Fieldf(field, "occupation points: %s", errors.GetMessage(err))
	}
	if occ.PersonalPoints.Mode != "" {
		if err := occupation.ValidateFormula(occ.PersonalPoints); err != nil {
			vb.Fieldf(field, "personal points: %s", errors.GetMessage(err))
		}
	}
	cr := occ.CreditRating
	if cr.Min < 0 || cr.Max > coc.MaxAttributeValue || cr.Min > cr.Max {
		vb.Fieldf(field, "invalid credit rating range %d-%d", cr.Min, cr.Max)
	}

	if _, err := skills.Expand(&occ); err != nil {
		vb.Fieldf(field, "%s", errors.GetMessage(err))
		return
	}

	for _, spec := range occ.Skills {
		switch spec.Kind {
		case coc.SkillSpecDirect:
			if !c.isConcreteSkill(spec.SkillID) {
				vb.Fieldf(field, "direct skill %s is unknown or needs a specialization", spec.SkillID)
			}
		case coc.SkillSpecChoice, coc.SkillSpecMixedChoice:
			for _, o := range spec.Options {
				def, ok := c.SkillDefinition(o.SkillID)
				switch {
				case !ok:
					vb.Fieldf(field, "option %s is unknown", o.SkillID)
				case o.Specialization != def.Specializable:
					vb.Fieldf(field, "option %s specialization flag does not match the skill", o.SkillID)
				}
			}
		case coc.SkillSpecSpecialization:
			def, ok := c.SkillDefinition(spec.BaseSkillID)
			if !ok || !def.Specializable {
				vb.Fieldf(field, "specialization base %s is unknown or not specializable", spec.BaseSkillID)
			}
			for _, s := range spec.Suggested {
				if c.parents[s] != spec.BaseSkillID {
					vb.Fieldf(field, "suggested %s is not a specialization of %s", s, spec.BaseSkillID)
				}
			}
		}
	}
}

// isConcreteSkill reports whether id can exist on a sheet as is
func (c *Catalog) isConcreteSkill(id string) bool {
	if def, ok := c.SkillDefinition(id); ok {
		return !def.Specializable
	}
	_, ok := c.parents[id]
	return ok
}

// SkillDefinition returns the catalog skill with id
func (c *Catalog) SkillDefinition(id string) (coc.SkillDefinition, bool) {
	i, ok := c.skillIndex[id]
	if !ok {
		return coc.SkillDefinition{}, false
	}
	return c.skills[i], true
}

// SkillDefinitions returns every catalog skill ordered by id
func (c *Catalog) SkillDefinitions() []coc.SkillDefinition {
	return append([]coc.SkillDefinition(nil), c.skills...)
}

// ParentSkill returns the base skill of a predefined specialization
func (c *Catalog) ParentSkill(specializationID string) (string, bool) {
	parent, ok := c.parents[specializationID]
	return parent, ok
}

// Occupation returns the occupation with id. The result must not be modified.
func (c *Catalog) Occupation(id string) (*coc.Occupation, bool) {
	i, ok := c.occIndex[id]
	if !ok {
		return nil, false
	}
	return &c.occupations[i], true
}

// Occupations returns every occupation ordered by id
func (c *Catalog) Occupations() []coc.Occupation {
	return append([]coc.Occupation(nil), c.occupations...)
}
