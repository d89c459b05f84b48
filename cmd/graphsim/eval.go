package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] [formula...]",
	Short: "Evaluate formulas at a time and point.",
	Long: `Evaluate formulas at a time and point. Formulas are read from arguments, or
from --in (default stdin if no arguments are given).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			inname = getString(cmd, "in")
			verb   = getString(cmd, "fmt")
			nl     = getFlag(cmd, "lines")
			echo   = getFlag(cmd, "echo")
			prec   = getUint(cmd, "prec")
			exact  = getFlag(cmd, "precise")
			tm     = getFloat(cmd, "time")
		)
		p, err := parsePoint(getString(cmd, "point"))
		if err != nil {
			return err
		}
		if prec == 0 {
			return fmt.Errorf("precision must be positive")
		}

		var srcs []string
		in, err := infile(cmd, inname, len(args) == 0)
		if err != nil {
			return err
		}
		if in != nil {
			b, err := io.ReadAll(in)
			if c, ok := in.(io.Closer); ok {
				c.Close()
			}
			if err != nil {
				return err
			}
			srcs = append(srcs, split(string(b), nl)...)
		}
		srcs = append(srcs, args...)

		env := formula.Env{Time: float32(tm), Point: p}
		ctx := formula.NewContext(formula.Prec(prec))
		w := bufio.NewWriter(cmd.OutOrStdout())
		defer w.Flush()
		verb += "\n"
		for _, src := range srcs {
			f := formula.Compile(src)
			if echo {
				fmt.Fprintf(w, "%v : ", f)
			}
			var r any
			if exact {
				r, err = ctx.EvalPrecise(f, env)
			} else {
				r, err = ctx.Eval(f, env)
			}
			if err != nil {
				log.Debugf("evaluating %q: %v", src, err)
				fmt.Fprintln(w, err)
				continue
			}
			fmt.Fprintf(w, verb, r)
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().String("in", "", "input file (default stdin if no args given)")
	evalCmd.Flags().String("fmt", "%g", "result formatting string")
	evalCmd.Flags().UintP("prec", "p", 64, "precision of --precise calculations in bits")
	evalCmd.Flags().BoolP("lines", "n", false, "parse separate input lines as separate formulas")
	evalCmd.Flags().Bool("echo", false, "print parsed formulas")
	evalCmd.Flags().Bool("precise", false, "evaluate with arbitrary precision")
	evalCmd.Flags().Float64("time", 0, "value of time")
	evalCmd.Flags().String("point", "0,0,0", "value of x,y,z")
}

// split divides input into formulas. Blank lines are skipped.
func split(s string, lines bool) []string {
	if !lines {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []string{s}
	}
	var r []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			r = append(r, line)
		}
	}
	return r
}

// infile opens the input named by --in. The command's own input stands in for
// stdin and is never closed.
func infile(cmd *cobra.Command, inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return nil, nil
}
