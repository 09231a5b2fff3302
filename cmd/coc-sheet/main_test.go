package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/config"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/i18n"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/conversion"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/sheetio"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/testutils"
)

type CLITestSuite struct {
	suite.Suite
	dir string
	env map[string]string
}

func (s *CLITestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.env = map[string]string{
		config.EnvPrefix + "STORAGE_BACKEND":     config.StorageSQLite,
		config.EnvPrefix + "STORAGE_SQLITE_PATH": filepath.Join(s.dir, "characters.db"),
		config.EnvPrefix + "PLAYER_ID":           testutils.TestPlayerID,
		config.EnvPrefix + "LOG_LEVEL":           "ERROR",
	}
}

// run executes the command tree and returns stdout and stderr
func (s *CLITestSuite) run(args ...string) (string, string, error) {
	cmd := newRootCmd(s.env)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (s *CLITestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

// importFixture stores the test character and returns its new ID
func (s *CLITestSuite) importFixture() string {
	translator, err := i18n.Load()
	s.Require().NoError(err)
	sheets, err := sheetio.New(&sheetio.Config{
		Converter:  conversion.NewDraftConverter(nil),
		Translator: translator,
	})
	s.Require().NoError(err)

	doc, err := sheets.Export(context.Background(), &sheetio.ExportInput{Character: testutils.NewTestCharacter()})
	s.Require().NoError(err)
	path := s.writeFile("harvey.yaml", string(doc.Data))

	stdout, _, err := s.run("import", path)
	s.Require().NoError(err)
	s.Require().True(strings.HasPrefix(stdout, "Imported character "), stdout)
	s.Contains(stdout, "from schema version 2")

	fields := strings.Fields(stdout)
	s.Require().GreaterOrEqual(len(fields), 3)
	return fields[2]
}

func (s *CLITestSuite) TestInvalidStorageFlag() {
	_, _, err := s.run("occupations", "--storage", "mongo")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(errors.FieldErrors(err), "Storage.Backend")
	s.Equal(errors.CodeInvalidArgument.ExitCode(), errors.GetCode(err).ExitCode())
}

func (s *CLITestSuite) TestOccupationsLocalized() {
	stdout, _, err := s.run("occupations", "--locale", "fr")
	s.Require().NoError(err)
	s.Contains(stdout, "antiquarian")
	s.Contains(stdout, "Antiquaire")
}

func (s *CLITestSuite) TestSkills() {
	stdout, _, err := s.run("skills")
	s.Require().NoError(err)
	s.Contains(stdout, "spot_hidden")
	s.Contains(stdout, "credit_rating")
}

func (s *CLITestSuite) TestImportListShowExportDelete() {
	id := s.importFixture()

	stdout, _, err := s.run("list")
	s.Require().NoError(err)
	s.Contains(stdout, id)
	s.Contains(stdout, testutils.TestCharacterName)

	stdout, _, err = s.run("show", id)
	s.Require().NoError(err)
	s.Contains(stdout, testutils.TestCharacterName)
	s.Contains(stdout, "age 42")

	exportPath := filepath.Join(s.dir, "export.yaml")
	_, _, err = s.run("export", id, "-o", exportPath)
	s.Require().NoError(err)
	exported, err := os.ReadFile(exportPath)
	s.Require().NoError(err)
	s.Contains(string(exported), "schemaVersion: 2")
	s.Contains(string(exported), "id: "+id)

	stdout, _, err = s.run("export", id)
	s.Require().NoError(err)
	s.Equal(string(exported), stdout)

	sheetPath := filepath.Join(s.dir, "sheet.pdf")
	_, _, err = s.run("sheet", id, "-o", sheetPath)
	s.Require().NoError(err)
	pdf, err := os.ReadFile(sheetPath)
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(pdf, []byte("%PDF")))

	_, _, err = s.run("delete", id)
	s.Require().NoError(err)

	_, _, err = s.run("show", id)
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *CLITestSuite) TestGenerateKeepDraft() {
	path := s.writeFile("script.yaml", `
name: Harvey Walters
commands:
  - type: basic_info_updated
    residence: Arkham
  - type: occupation_chosen
    occupationId: antiquarian
`)

	stdout, _, err := s.run("generate", path, "--keep-draft")
	s.Require().NoError(err)
	s.Contains(stdout, "updated with 2 commands")
}

func (s *CLITestSuite) TestGenerateIncompleteDraft() {
	path := s.writeFile("script.yaml", `
name: Harvey Walters
commands:
  - type: occupation_chosen
    occupationId: antiquarian
`)

	_, stderr, err := s.run("generate", path)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Contains(stderr, "missing steps")
}

func (s *CLITestSuite) TestGenerateRejectedCommand() {
	path := s.writeFile("script.yaml", `
commands:
  - type: age_changed
    raw: "42"
`)

	_, _, err := s.run("generate", path)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Contains(err.Error(), "command 1 (age_changed) rejected")
}

func (s *CLITestSuite) TestHealthAndMetrics() {
	opts := &rootOptions{env: s.env}
	s.Require().NoError(opts.load(newRootCmd(s.env), nil))

	a, err := newApp(context.Background(), opts.cfg)
	s.Require().NoError(err)
	defer a.Close()

	router, err := newRouter(a, opts, prometheus.NewRegistry())
	s.Require().NoError(err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1alpha1/occupations", nil))
	s.Equal(http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "coc_sheet_http_request_duration_seconds")
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func TestParseScript(t *testing.T) {
	name, commands, err := parseScript([]byte(`
name: Harvey Walters
commands:
  - type: attribute_method_chosen
    method: quick_fire
  - type: skill_points_allocated
    skillId: library_use
    kind: occupation
    value: 40
`))
	require.NoError(t, err)
	assert.Equal(t, "Harvey Walters", name)
	require.Len(t, commands, 2)
	assert.Equal(t, engine.AttributeMethodChosen{Method: "quick_fire"}, commands[0])
	assert.Equal(t, engine.SkillPointsAllocated{SkillID: "library_use", Kind: "occupation", Value: 40}, commands[1])
}

func TestParseScriptUnknownCommand(t *testing.T) {
	_, _, err := parseScript([]byte(`
commands:
  - type: summon_shoggoth
`))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseScriptInvalidYAML(t *testing.T) {
	_, _, err := parseScript([]byte("commands: [\n"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}
