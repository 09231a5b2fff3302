package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/i18n"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show CHARACTER_ID",
		Short: "Print a stored character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.GetCharacter(cmd.Context(), &character.GetCharacterInput{CharacterID: args[0]})
			if err != nil {
				return err
			}
			return printCharacter(cmd.OutOrStdout(), a.translator, opts.cfg.Locale, out.Character)
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the player's characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.ListCharacters(cmd.Context(), &character.ListCharactersInput{
				PlayerID: opts.cfg.PlayerID,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tOCCUPATION\tAGE")
			for _, c := range out.Characters {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
					c.ID,
					c.Identity.Name,
					a.translator.Occupation(opts.cfg.Locale, c.Identity.Occupation),
					c.Identity.Age,
				)
			}
			return w.Flush()
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CHARACTER_ID",
		Short: "Delete a stored character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.DeleteCharacter(cmd.Context(), &character.DeleteCharacterInput{CharacterID: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export CHARACTER_ID",
		Short: "Write a character as a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.ExportCharacter(cmd.Context(), &character.ExportCharacterInput{CharacterID: args[0]})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out.Data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, - for stdout")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Store a character read from a YAML document",
		Long: `Import reads a character document, migrating documents written by older
versions, and stores it under a new ID owned by the current player.
Use - to read the document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.ImportCharacter(cmd.Context(), &character.ImportCharacterInput{
				PlayerID: opts.cfg.PlayerID,
				Data:     data,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported character %s (%s) from schema version %d\n",
				out.Character.ID, out.Character.Identity.Name, out.SourceVersion)
			return nil
		},
	}
}

func newSheetCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sheet CHARACTER_ID",
		Short: "Render a character as a printable PDF sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.RenderCharacterSheet(cmd.Context(), &character.RenderCharacterSheetInput{
				CharacterID: args[0],
				Locale:      opts.cfg.Locale,
			})
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + ".pdf"
			}
			return writeOutput(cmd, output, out.Data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, defaults to CHARACTER_ID.pdf")
	return cmd
}

// writeOutput writes data to path, or stdout when path is -
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

func printCharacter(out io.Writer, tr *i18n.Translator, locale string, c *coc.Character) error {
	fmt.Fprintf(out, "%s, %s, age %d (%s)\n",
		c.Identity.Name,
		tr.Occupation(locale, c.Identity.Occupation),
		c.Identity.Age,
		c.ID,
	)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w)
	for _, key := range coc.AllAttributes {
		attr := c.Attributes.Get(key)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", tr.Attribute(locale, key), attr.Value, attr.HalfValue, attr.FifthValue)
	}

	d := c.Derived
	fmt.Fprintln(w)
	fmt.Fprintf(w, "HP\t%d/%d\n", d.HitPoints.Current, d.HitPoints.Effective())
	fmt.Fprintf(w, "SAN\t%d/%d\n", d.Sanity.Current, d.Sanity.Effective())
	fmt.Fprintf(w, "MP\t%d/%d\n", d.MagicPoints.Current, d.MagicPoints.Effective())
	fmt.Fprintf(w, "Luck\t%d\n", d.Luck.Current)
	fmt.Fprintf(w, "Move\t%d\n", d.Movement.Effective())
	fmt.Fprintf(w, "Build\t%d\n", d.Build)
	fmt.Fprintf(w, "Damage bonus\t%s\n", d.DamageBonus)

	skills := make([]coc.Skill, len(c.Skills))
	copy(skills, c.Skills)
	sort.SliceStable(skills, func(i, j int) bool {
		return tr.Skill(locale, skills[i]) < tr.Skill(locale, skills[j])
	})
	fmt.Fprintln(w)
	for _, s := range skills {
		fmt.Fprintf(w, "%s\t%d\n", tr.Skill(locale, s), s.TotalValue)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Credit rating\t%d\n", c.Finance.CreditRating)
	fmt.Fprintf(w, "Spending level\t%.2f\n", c.Finance.SpendingLevel)
	fmt.Fprintf(w, "Cash\t%.2f\n", c.Finance.Cash)
	fmt.Fprintf(w, "Assets\t%.2f\n", c.Finance.Assets)
	return w.Flush()
}
