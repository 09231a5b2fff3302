// Package i18n resolves skill, occupation and sheet label ids to display
// strings. Messages live in embedded YAML locale files, one file per
// namespace, and are served through an x/text message catalog.
package i18n

import (
	"embed"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

// BaseLocale is the locale every other locale falls back to
const BaseLocale = "en"

// Key namespaces
const (
	NamespaceSkills      = "skills"
	NamespaceOccupations = "occupations"
	NamespaceSheet       = "sheet"
)

const specializationKey = "skills.specialization"

//go:embed locales/*/*.yaml
var localesFS embed.FS

type localeFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Translator looks up display strings by locale
type Translator struct {
	builder  *catalog.Builder
	matcher  language.Matcher
	tags     []language.Tag
	messages map[language.Tag]map[string]string
}

// Load reads the embedded locale files
func Load() (*Translator, error) {
	return LoadFS(localesFS)
}

// LoadFS reads locale files laid out as locales/<locale>/<namespace>.yaml
func LoadFS(fsys fs.FS) (*Translator, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list locale files")
	}
	if len(paths) == 0 {
		return nil, errors.NotFound("no locale files found")
	}
	sort.Strings(paths)

	base := language.Make(BaseLocale)
	t := &Translator{
		builder:  catalog.NewBuilder(catalog.Fallback(base)),
		messages: map[language.Tag]map[string]string{},
	}

	for _, p := range paths {
		if err := t.addFile(fsys, p); err != nil {
			return nil, err
		}
	}

	if _, ok := t.messages[base]; !ok {
		return nil, errors.FailedPreconditionf("base locale %s has no messages", BaseLocale)
	}

	// the matcher defaults to its first tag
	t.tags = append(t.tags, base)
	for tag := range t.messages {
		if tag != base {
			t.tags = append(t.tags, tag)
		}
	}
	rest := t.tags[1:]
	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })
	t.matcher = language.NewMatcher(t.tags)

	slog.Debug("Locales loaded", "locales", t.Locales(), "files", len(paths))
	return t, nil
}

func (t *Translator) addFile(fsys fs.FS, p string) error {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", p)
	}

	var file localeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.WrapWithCode(err, errors.CodeDataLoss, "failed to parse "+p)
	}

	dirLocale := path.Base(path.Dir(p))
	namespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

	vb := errors.NewValidationBuilder()
	if file.Locale != dirLocale {
		vb.Fieldf("locale", "%q must match directory %q", file.Locale, dirLocale)
	}
	if file.Namespace != namespace {
		vb.Fieldf("namespace", "%q must match file name %q", file.Namespace, namespace)
	}
	if len(file.Messages) == 0 {
		vb.RequiredField("messages")
	}
	for key := range file.Messages {
		if !strings.HasPrefix(key, namespace+".") {
			vb.Fieldf("messages", "key %q is outside namespace %s", key, namespace)
		}
	}
	if err := vb.Build(); err != nil {
		return errors.Wrapf(err, "invalid locale file %s", p)
	}

	tag, err := language.Parse(file.Locale)
	if err != nil {
		return errors.InvalidArgumentf("locale %q in %s is not a language tag", file.Locale, p)
	}

	msgs, ok := t.messages[tag]
	if !ok {
		msgs = map[string]string{}
		t.messages[tag] = msgs
	}
	for key, value := range file.Messages {
		if _, dup := msgs[key]; dup {
			return errors.AlreadyExistsf("key %s defined twice for %s", key, file.Locale)
		}
		if err := t.builder.SetString(tag, key, value); err != nil {
			return errors.Wrapf(err, "failed to register %s", key)
		}
		msgs[key] = value
	}
	return nil
}

// Locales returns the loaded locales, base locale first
func (t *Translator) Locales() []string {
	out := make([]string, 0, len(t.tags))
	for _, tag := range t.tags {
		out = append(out, tag.String())
	}
	return out
}

// resolve returns the supported tag closest to locale
func (t *Translator) resolve(locale string) language.Tag {
	if len(t.tags) == 0 {
		return language.Make(BaseLocale)
	}
	_, idx, _ := t.matcher.Match(language.Make(strings.TrimSpace(locale)))
	return t.tags[idx]
}

// Printer returns an x/text printer bound to the closest supported locale
func (t *Translator) Printer(locale string) *message.Printer {
	return message.NewPrinter(t.resolve(locale), message.Catalog(t.builder))
}

// Lookup returns the message for key, falling back to the base locale
func (t *Translator) Lookup(locale, key string, args ...any) (string, bool) {
	tag := t.resolve(locale)
	if _, ok := t.messages[tag][key]; !ok {
		tag = language.Make(BaseLocale)
		if _, ok := t.messages[tag][key]; !ok {
			return "", false
		}
	}
	return message.NewPrinter(tag, message.Catalog(t.builder)).Sprintf(key, args...), true
}

// Text returns the message for key, or fallback when no locale defines it
func (t *Translator) Text(locale, key, fallback string) string {
	if s, ok := t.Lookup(locale, key); ok {
		return s
	}
	return fallback
}

// SkillKey returns the message key of a skill id
func SkillKey(id string) string {
	return NamespaceSkills + "." + id
}

// OccupationKey returns the message key of an occupation id
func OccupationKey(id string) string {
	return NamespaceOccupations + "." + id
}

// SheetKey returns the message key of a sheet label
func SheetKey(id string) string {
	return NamespaceSheet + "." + id
}

// Occupation returns the display name of an occupation, or its id
func (t *Translator) Occupation(locale, id string) string {
	return t.Text(locale, OccupationKey(id), id)
}

// SkillName returns the display name of a skill id, or the id itself
func (t *Translator) SkillName(locale, id string) string {
	return t.Text(locale, SkillKey(id), id)
}

// Skill returns the display name of a skill instance. Custom
// specializations combine the base skill name with the player's name.
func (t *Translator) Skill(locale string, s coc.Skill) string {
	if !s.IsCustom {
		return t.SkillName(locale, s.ID)
	}

	parent := t.SkillName(locale, s.ParentSkillID)
	if label, ok := t.Lookup(locale, specializationKey, parent, s.CustomName); ok {
		return label
	}
	return parent + " (" + s.CustomName + ")"
}

// Attribute returns the short sheet label of a characteristic
func (t *Translator) Attribute(locale string, key coc.AttributeKey) string {
	return t.Text(locale, SheetKey(string(key)), strings.ToUpper(string(key)))
}
