package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/presets"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graphsim",
	Short: "Animate a grid of points with per-axis formulas.",
	Long: `Evaluate formulas over x, y, z, and time, and use them to animate a grid of points.

Formulas use integers, the variables x, y, z, and time, the operators + - * / ^,
parentheses, and the functions sin, cos, tan, and abs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("db", "graphsim.db", "preset database file")
	rootCmd.AddCommand(evalCmd, runCmd, replCmd, presetCmd)
}

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

func getFloat(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// openStore opens the preset database named by --db.
func openStore(cmd *cobra.Command) (*presets.SQLite, error) {
	path := getString(cmd, "db")
	s, err := presets.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("opening preset database %s: %w", path, err)
	}
	log.Debugf("opened preset database %s", path)
	return s, nil
}

// parsePoint parses a point written as "x,y,z". Missing trailing coordinates
// are zero.
func parsePoint(s string) (formula.Vec3, error) {
	var p formula.Vec3
	if strings.TrimSpace(s) == "" {
		return p, nil
	}
	fields := strings.Split(s, ",")
	if len(fields) > 3 {
		return p, fmt.Errorf("point %q has more than three coordinates", s)
	}
	dst := [...]*float32{&p.X, &p.Y, &p.Z}
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return p, fmt.Errorf("point %q: %w", s, err)
		}
		*dst[i] = float32(v)
	}
	return p, nil
}
