package sheetio

import (
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

const schemaVersionKey = "schemaVersion"

// Migration upgrades a record document by one schema version, in place
type Migration func(doc *yaml.Node) error

// Migrations is a registry of single-step migrations keyed by the version
// they upgrade from
type Migrations struct {
	steps   map[int]Migration
	current int
}

// NewMigrations returns the registry with every known migration
func NewMigrations() *Migrations {
	m := &Migrations{steps: map[int]Migration{}, current: coc.CurrentSchemaVersion}
	m.Register(1, migrateV1)
	return m
}

// Register sets the migration upgrading from version to version+1
func (m *Migrations) Register(from int, fn Migration) {
	m.steps[from] = fn
}

// Migrate upgrades doc from version to the current version and stamps the
// new version on it. doc must be the record mapping node.
func (m *Migrations) Migrate(doc *yaml.Node, version int) error {
	if version > m.current {
		return errors.FailedPreconditionf("schema version %d is newer than supported version %d", version, m.current)
	}
	if version < 1 {
		return errors.InvalidArgumentf("schema version %d is not valid", version)
	}

	for v := version; v < m.current; v++ {
		step, ok := m.steps[v]
		if !ok {
			return errors.FailedPreconditionf("no migration from schema version %d", v)
		}
		if err := step(doc); err != nil {
			return errors.Wrapf(err, "failed to migrate from schema version %d", v)
		}
		set(doc, schemaVersionKey, scalarInt(v+1))

		slog.Debug("Record migrated", "from", v, "to", v+1)
	}
	return nil
}

var derivedValueKeys = []string{"hitPoints", "sanity", "magicPoints", "luck"}

// migrateV1 upgrades version 1 records. Version 1 stored characteristics
// and derived values as plain integers, skills as an id with a single
// value, and had no modifier lists nor finance block.
func migrateV1(doc *yaml.Node) error {
	if attrs := lookup(doc, "attributes"); isMapping(attrs) {
		for _, key := range coc.AllAttributes {
			n := lookup(attrs, string(key))
			if v, ok := intValue(n); ok {
				a := coc.NewAttribute(v)
				set(attrs, string(key), mapping(
					"value", scalarInt(a.Value),
					"halfValue", scalarInt(a.HalfValue),
					"fifthValue", scalarInt(a.FifthValue),
				))
			}
		}
	}

	if derived := lookup(doc, "derived"); isMapping(derived) {
		for _, key := range derivedValueKeys {
			n := lookup(derived, key)
			if v, ok := intValue(n); ok {
				set(derived, key, mapping(
					"maximum", scalarInt(v),
					"current", scalarInt(v),
					"modifiers", emptySequence(),
				))
				continue
			}
			if isMapping(n) && lookup(n, "modifiers") == nil {
				set(n, "modifiers", emptySequence())
			}
		}

		move := lookup(derived, "movement")
		if v, ok := intValue(move); ok {
			set(derived, "movement", mapping(
				"base", scalarInt(v),
				"running", scalarInt(v*5),
				"climbing", scalarInt(v/2),
				"swimming", scalarInt(v/2),
				"modifiers", emptySequence(),
			))
		} else if isMapping(move) && lookup(move, "modifiers") == nil {
			set(move, "modifiers", emptySequence())
		}
	}

	if skills := lookup(doc, "skills"); skills != nil && skills.Kind == yaml.SequenceNode {
		for _, s := range skills.Content {
			if !isMapping(s) {
				continue
			}
			if v, ok := intValue(lookup(s, "value")); ok && lookup(s, "baseValue") == nil {
				set(s, "baseValue", scalarInt(v))
				set(s, "personalValue", scalarInt(0))
				set(s, "occupationValue", scalarInt(0))
				set(s, "totalValue", scalarInt(v))
				removeKey(s, "value")
			}
			if lookup(s, "totalValue") == nil {
				set(s, "totalValue", scalarInt(0))
			}
		}
	}

	if lookup(doc, "finance") == nil {
		set(doc, "finance", mapping(
			"creditRating", scalarInt(0),
			"spendingLevel", scalarInt(0),
			"cash", scalarInt(0),
			"assets", scalarInt(0),
		))
	}

	if lookup(doc, "updatedAt") == nil {
		if created := lookup(doc, "createdAt"); created != nil {
			set(doc, "updatedAt", &yaml.Node{Kind: created.Kind, Tag: created.Tag, Value: created.Value})
		}
	}

	return nil
}

func removeKey(n *yaml.Node, key string) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			n.Content = append(n.Content[:i], n.Content[i+2:]...)
			return
		}
	}
}
