package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/cache"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate formulas interactively.",
	Long: `Read formulas one per line and print their values.

  :t <time>       set time
  :p <x> <y> <z>  set the point
  :e              show the environment
  :q              quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := &replState{ctx: formula.NewContext(), cache: cache.New(128)}
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return replLoop(st, bufio.NewScanner(os.Stdin), cmd.OutOrStdout())
		}
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, state)
		screen := struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
		t := term.NewTerminal(screen, "> ")
		for {
			line, err := t.ReadLine()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			out, quit := st.exec(line)
			if quit {
				return nil
			}
			if out != "" {
				fmt.Fprintln(t, out)
			}
		}
	},
}

// replLoop runs the REPL over line input without a prompt.
func replLoop(st *replState, in *bufio.Scanner, out io.Writer) error {
	for in.Scan() {
		s, quit := st.exec(in.Text())
		if quit {
			return nil
		}
		if s != "" {
			fmt.Fprintln(out, s)
		}
	}
	return in.Err()
}

type replState struct {
	env   formula.Env
	ctx   *formula.Context
	cache *cache.Cache
}

// exec runs one line and returns the text to print.
func (st *replState) exec(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if !strings.HasPrefix(line, ":") {
		f := st.cache.GetOrCompile(line, formula.Compile)
		r, err := st.ctx.Eval(f, st.env)
		if err != nil {
			log.Debugf("evaluating %q: %v", line, err)
			return "error: " + err.Error(), false
		}
		return strconv.FormatFloat(float64(r), 'g', -1, 32), false
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case ":q":
		return "", true
	case ":t":
		if len(fields) != 2 {
			return "usage: :t <time>", false
		}
		v, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return "error: " + err.Error(), false
		}
		st.env.Time = float32(v)
		return "", false
	case ":p":
		if len(fields) != 4 {
			return "usage: :p <x> <y> <z>", false
		}
		p, err := parsePoint(strings.Join(fields[1:], ","))
		if err != nil {
			return "error: " + err.Error(), false
		}
		st.env.Point = p
		return "", false
	case ":e":
		p := st.env.Point
		return fmt.Sprintf("time=%g x=%g y=%g z=%g", st.env.Time, p.X, p.Y, p.Z), false
	default:
		return "unknown command " + fields[0], false
	}
}
