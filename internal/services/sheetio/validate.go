package sheetio

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

var (
	identityFields  = []string{"name", "player", "occupation", "age"}
	attributeFields = []string{"value", "halfValue", "fifthValue"}
	derivedFields   = []string{"maximum", "current", "modifiers"}
	movementFields  = []string{"base", "modifiers"}
	skillFields     = []string{"id", "baseValue", "personalValue", "occupationValue", "totalValue"}
	financeFields   = []string{"creditRating", "spendingLevel", "cash", "assets"}
)

// validateDocument checks that every required field of a current version
// record is present
func validateDocument(doc *yaml.Node) error {
	vb := errors.NewValidationBuilder()

	requireMapping := func(parent *yaml.Node, key, path string) *yaml.Node {
		n := lookup(parent, key)
		if n == nil {
			vb.RequiredField(path)
			return nil
		}
		if !isMapping(n) {
			vb.InvalidField(path, "must be a mapping")
			return nil
		}
		return n
	}
	requireKeys := func(n *yaml.Node, path string, keys []string) {
		for _, key := range keys {
			if lookup(n, key) == nil {
				vb.RequiredField(path + "." + key)
			}
		}
	}
	requireSequence := func(n *yaml.Node, path string) {
		if v := lookup(n, "modifiers"); v != nil && v.Kind != yaml.SequenceNode {
			vb.InvalidField(path+".modifiers", "must be a list")
		}
	}

	if identity := requireMapping(doc, "identity", "identity"); identity != nil {
		requireKeys(identity, "identity", identityFields)
	}

	if attrs := requireMapping(doc, "attributes", "attributes"); attrs != nil {
		for _, key := range coc.AllAttributes {
			path := "attributes." + string(key)
			if a := requireMapping(attrs, string(key), path); a != nil {
				requireKeys(a, path, attributeFields)
			}
		}
	}

	if derived := requireMapping(doc, "derived", "derived"); derived != nil {
		for _, key := range derivedValueKeys {
			path := "derived." + key
			if d := requireMapping(derived, key, path); d != nil {
				requireKeys(d, path, derivedFields)
				requireSequence(d, path)
			}
		}
		if move := requireMapping(derived, "movement", "derived.movement"); move != nil {
			requireKeys(move, "derived.movement", movementFields)
			requireSequence(move, "derived.movement")
		}
		requireKeys(derived, "derived", []string{"build", "damageBonus"})
	}

	skills := lookup(doc, "skills")
	switch {
	case skills == nil:
		vb.RequiredField("skills")
	case skills.Kind != yaml.SequenceNode:
		vb.InvalidField("skills", "must be a list")
	default:
		for i, s := range skills.Content {
			path := fmt.Sprintf("skills[%d]", i)
			if !isMapping(s) {
				vb.InvalidField(path, "must be a mapping")
				continue
			}
			requireKeys(s, path, skillFields)
		}
	}

	if finance := requireMapping(doc, "finance", "finance"); finance != nil {
		requireKeys(finance, "finance", financeFields)
	}

	for _, key := range []string{"createdAt", "updatedAt"} {
		if lookup(doc, key) == nil {
			vb.RequiredField(key)
		}
	}

	return vb.Build()
}

// validateRecord checks the decoded values a document cannot express
func validateRecord(c *coc.Character) error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("identity.name", c.Identity.Name, vb)
	errors.ValidateRequired("identity.occupation", c.Identity.Occupation, vb)
	errors.ValidateRange("identity.age", c.Identity.Age, coc.MinAge, coc.MaxAge, vb)

	for _, key := range coc.AllAttributes {
		a := c.Attributes.Get(key)
		path := "attributes." + string(key)
		if a.Value < coc.MinAttributeValue || a.Value > coc.MaxAttributeValue {
			vb.Fieldf(path, "value must be between %d and %d", coc.MinAttributeValue, coc.MaxAttributeValue)
		} else if !a.IsConsistent() {
			vb.Field(path, "half and fifth values do not match the value")
		}
	}

	seen := make(map[string]bool, len(c.Skills))
	for i, s := range c.Skills {
		if s.ID == "" {
			vb.RequiredField(fmt.Sprintf("skills[%d].id", i))
			continue
		}
		if seen[s.ID] {
			vb.Fieldf(fmt.Sprintf("skills[%d].id", i), "duplicate skill %s", s.ID)
		}
		seen[s.ID] = true
	}

	return vb.Build()
}
