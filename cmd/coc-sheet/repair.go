package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/config"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/entities/coc"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	redisclient "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/redis"
	characterrepo "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/repositories/character"
)

// corruptRecord is a stored character that can no longer be read
type corruptRecord struct {
	Key    string
	Reason string
}

func newRepairCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Find and delete unreadable characters in the redis store",
		Long: `Repair scans the stored characters, reports the ones that no longer decode
or whose attributes are inconsistent, and offers to delete them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.Storage.Backend != config.StorageRedis {
				return errors.FailedPreconditionf("repair needs the %s backend", config.StorageRedis)
			}

			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			checked, corrupt, err := scanCharacters(cmd.Context(), a.redis)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Checked %d characters, found %d corrupted\n", checked, len(corrupt))
			if len(corrupt) == 0 {
				return nil
			}
			for _, c := range corrupt {
				fmt.Fprintf(out, "  - %s: %s\n", c.Key, c.Reason)
			}

			if !yes {
				fmt.Fprint(out, "Delete these entries? (yes/no): ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					fmt.Fprintln(out, "Aborted, no changes made")
					return nil
				}
			}

			for _, c := range corrupt {
				if err := a.redis.Del(cmd.Context(), c.Key).Err(); err != nil {
					return errors.Wrapf(err, "failed to delete %s", c.Key)
				}
				fmt.Fprintf(out, "Deleted %s\n", c.Key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// scanCharacters reads every character document and returns the ones that
// fail to decode or carry inconsistent attributes
func scanCharacters(ctx context.Context, client redisclient.Client) (int, []corruptRecord, error) {
	var (
		checked int
		corrupt []corruptRecord
	)

	iter := client.Scan(ctx, 0, characterrepo.RedisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasPrefix(key, characterrepo.RedisPlayerIndexPrefix) {
			continue
		}
		checked++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			return checked, corrupt, errors.Wrapf(err, "failed to read %s", key)
		}
		if reason := inspectCharacter(key, data); reason != "" {
			corrupt = append(corrupt, corruptRecord{Key: key, Reason: reason})
		}
	}
	if err := iter.Err(); err != nil {
		return checked, corrupt, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to scan characters")
	}

	return checked, corrupt, nil
}

func inspectCharacter(key string, data []byte) string {
	var char coc.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return "invalid JSON"
	}
	if char.ID == "" || characterrepo.RedisKeyPrefix+char.ID != key {
		return "id does not match key"
	}
	for _, attr := range coc.AllAttributes {
		if !char.Attributes.Get(attr).IsConsistent() {
			return fmt.Sprintf("inconsistent %s", attr)
		}
	}
	return ""
}
