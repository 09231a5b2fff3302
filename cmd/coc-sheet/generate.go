package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
)

// script is a creation session written as YAML: an optional name and the
// commands to apply in order
type script struct {
	Name     string      `yaml:"name"`
	Commands []yaml.Node `yaml:"commands"`
}

// parseScript decodes every command of a script before any is applied
func parseScript(data []byte) (string, []engine.Command, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return "", nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "script is not valid YAML")
	}

	commands := make([]engine.Command, 0, len(s.Commands))
	for i := range s.Commands {
		node := &s.Commands[i]

		var env engine.Envelope
		if err := node.Decode(&env); err != nil {
			return "", nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed command").
				WithMeta("line", node.Line)
		}
		cmd, err := engine.DecodeCommand(env.Type, node.Decode)
		if err != nil {
			return "", nil, errors.Wrapf(err, "command %d at line %d", i+1, node.Line)
		}
		commands = append(commands, cmd)
	}
	return s.Name, commands, nil
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var keepDraft bool

	cmd := &cobra.Command{
		Use:   "generate SCRIPT",
		Short: "Build an investigator from a YAML command script",
		Long: `Generate creates a draft, applies the commands of SCRIPT in order and
finalizes the draft into a stored character. Use - to read the script from stdin.

Example script:

  name: Harvey Walters
  commands:
    - type: attribute_method_chosen
      method: quick_fire
    - type: age_changed
      raw: "42"
    - type: occupation_chosen
      occupationId: antiquarian`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			name, commands, err := parseScript(data)
			if err != nil {
				return err
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			created, err := a.service.CreateDraft(ctx, &character.CreateDraftInput{
				PlayerID: opts.cfg.PlayerID,
				Name:     name,
			})
			if err != nil {
				return err
			}
			draftID := created.Draft.ID

			var warnings []character.ValidationWarning
			for i, c := range commands {
				out, err := a.service.ApplyCommand(ctx, &character.ApplyCommandInput{DraftID: draftID, Command: c})
				if err != nil {
					return errors.Wrapf(err, "command %d (%s) rejected", i+1, c.CommandType())
				}
				warnings = out.Warnings
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Field, w.Message)
			}

			if keepDraft {
				fmt.Fprintf(cmd.OutOrStdout(), "Draft %s updated with %d commands\n", draftID, len(commands))
				return nil
			}

			final, err := a.service.FinalizeDraft(ctx, &character.FinalizeDraftInput{DraftID: draftID})
			if err != nil {
				if steps, ok := errors.GetMeta(err)["missing_steps"]; ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "missing steps: %v\n", steps)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created character %s (%s)\n",
				final.Character.ID, final.Character.Identity.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepDraft, "keep-draft", false, "apply the commands without finalizing the draft")
	return cmd
}

// readInput reads path, or stdin when path is -
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read input").
			WithMeta("path", path)
	}
	return data, nil
}
