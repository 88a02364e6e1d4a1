package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haytac/emojiril/internal/aliases"
	"github.com/haytac/emojiril/internal/database"
	"github.com/haytac/emojiril/internal/shortname"
)

// NewAliasCmd creates the 'alias' command and its subcommands.
func NewAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alias",
		Short:   "Manage stored aliases",
		Aliases: []string{"aliases"},
	}
	cmd.AddCommand(newAliasAddCmd())
	cmd.AddCommand(newAliasListCmd())
	cmd.AddCommand(newAliasRemoveCmd())
	cmd.AddCommand(newAliasAffixesCmd())
	return cmd
}

func newAliasAddCmd() *cobra.Command {
	var template bool
	addCmd := &cobra.Command{
		Use:   "add <alias> <replacement>",
		Short: "Add or replace a stored alias",
		Long: `Add or replace a stored alias. With --template the replacement is a Go
template executed per match, e.g. '@{{.Alias}}'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfig(); err != nil {
				return err
			}
			a := &database.Alias{Name: args[0], Kind: database.KindLiteral, Value: args[1]}
			if template {
				a.Kind = database.KindTemplate
			}
			if err := shortname.ValidateAlias(a.Name); err != nil {
				return err
			}
			if _, err := aliases.ToReplacement(a); err != nil {
				return err
			}

			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := store.UpsertAlias(cmd.Context(), a)
			if err != nil {
				return fmt.Errorf("failed to add alias: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Alias '%s' saved with ID: %d\n", a.Name, id)
			return nil
		},
	}
	addCmd.Flags().BoolVarP(&template, "template", "t", false, "treat the replacement as a Go template")
	return addCmd
}

func newAliasListCmd() *cobra.Command {
	var all bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfig(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if all {
				reg, err := loadRegistry(cmd.Context())
				if err != nil {
					return err
				}
				prefix, suffix := reg.Affixes()
				for _, alias := range reg.Aliases() {
					fmt.Fprintf(out, "%s%s%s\n", prefix, alias, suffix)
				}
				return nil
			}

			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := store.ListAliases(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list aliases: %w", err)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No aliases stored.")
				return nil
			}
			for _, a := range list {
				fmt.Fprintf(out, "%s\t%s\t%s\n", a.Name, a.Kind, a.Value)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVarP(&all, "all", "a", false, "list every alias of the assembled registry, including emoji and file aliases")
	return listCmd
}

func newAliasRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <alias>",
		Short:   "Remove a stored alias",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfig(); err != nil {
				return err
			}
			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			deleted, err := store.DeleteAlias(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to remove alias: %w", err)
			}
			if !deleted {
				return fmt.Errorf("alias '%s' not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Alias '%s' removed\n", args[0])
			return nil
		},
	}
}

func newAliasAffixesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "affixes [<prefix> <suffix>]",
		Short: "Show or store the token prefix and suffix",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or <prefix> <suffix>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfig(); err != nil {
				return err
			}
			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := cmd.Context()

			if len(args) == 2 {
				if _, err := shortname.NewWithAffixes(args[0], args[1]); err != nil {
					return err
				}
				if err := store.SetSetting(ctx, database.SettingPrefix, args[0]); err != nil {
					return err
				}
				if err := store.SetSetting(ctx, database.SettingSuffix, args[1]); err != nil {
					return err
				}
			}

			prefix, err := store.GetSetting(ctx, database.SettingPrefix)
			if err != nil {
				return err
			}
			suffix, err := store.GetSetting(ctx, database.SettingSuffix)
			if err != nil {
				return err
			}
			if prefix == "" && suffix == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No affixes stored; configuration defaults apply.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join([]string{"prefix=" + prefix, "suffix=" + suffix}, " "))
			return nil
		},
	}
}
