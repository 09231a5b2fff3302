package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
)

func newOccupationsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "occupations",
		Short: "List the occupations and their skill point formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.ListOccupations(cmd.Context(), &character.ListOccupationsInput{
				Locale: opts.cfg.Locale,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCREDIT RATING\tOCCUPATION POINTS\tSKILLS")
			for _, o := range out.Occupations {
				fmt.Fprintf(w, "%s\t%s\t%d-%d\t%s\t%s\n",
					o.ID,
					o.Name,
					o.CreditRating.Min,
					o.CreditRating.Max,
					o.OccupationFormula,
					strings.Join(o.OccupationSkillIDs, ", "),
				)
			}
			return w.Flush()
		},
	}
}

func newSkillsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "List the skills with their base values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out, err := a.service.ListSkills(cmd.Context(), &character.ListSkillsInput{
				Locale: opts.cfg.Locale,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBASE")
			for _, s := range out.Skills {
				base := baseLabel(s)
				if s.BaseAttribute != "" {
					base = "from " + a.translator.Attribute(opts.cfg.Locale, s.BaseAttribute)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, base)
				for _, spec := range s.Specializations {
					fmt.Fprintf(w, "  %s\t  %s\t%s\n", spec.ID, spec.Name, baseLabel(spec))
				}
			}
			return w.Flush()
		},
	}
}

func baseLabel(s character.SkillSummary) string {
	label := fmt.Sprintf("%d%%", s.BaseValue)
	if s.Restricted {
		label += " (restricted)"
	}
	return label
}
