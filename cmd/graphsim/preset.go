package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula/internal/presets"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage named formula presets.",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save [flags] name",
	Short: "Save the --x, --y, and --z formulas under a name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := presets.Preset{
			Name: args[0],
			X:    getString(cmd, "x"),
			Y:    getString(cmd, "y"),
			Z:    getString(cmd, "z"),
		}
		if err := p.Validate(); err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Put(p); err != nil {
			return err
		}
		log.Infof("saved preset %s", p.Name)
		return nil
	},
}

var presetGetCmd = &cobra.Command{
	Use:   "get name",
	Short: "Print a preset.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		p, err := presets.Lookup(s, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "x: %s\ny: %s\nz: %s\n", p.X, p.Y, p.Z)
		return nil
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored and builtin presets.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		names, err := presets.Names(s)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete name",
	Short: "Delete a stored preset.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Delete(args[0])
	},
}

func init() {
	presetSaveCmd.Flags().String("x", "x", "x formula")
	presetSaveCmd.Flags().String("y", "y", "y formula")
	presetSaveCmd.Flags().String("z", "z", "z formula")
	presetCmd.AddCommand(presetSaveCmd, presetGetCmd, presetListCmd, presetDeleteCmd)
}
