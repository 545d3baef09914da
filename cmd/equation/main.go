package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/equation"
)

func main() {
	var (
		inname, verb, logLevel string
		echo                   bool
		prec, depth            int
	)
	flag.StringVar(&inname, "in", "", "input file, one equation per line (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.IntVar(&prec, "p", 64, "precision of calculations in bits")
	flag.IntVar(&depth, "depth", 256, "maximum nesting depth of brackets")
	flag.BoolVar(&echo, "echo", false, "print each equation before its result")
	flag.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := newLogger(os.Stderr, logLevel)
	if err != nil {
		logger.Fatal().Err(err).Str("log-level", logLevel).Msg("invalid log level")
	}

	if prec <= 0 {
		logger.Fatal().Int("prec", prec).Msg("precision must be positive")
	}
	ctx := equation.NewContext(equation.Prec(uint(prec)), equation.MaxDepth(depth))
	c := calc{ctx: ctx, verb: verb + "\n", echo: echo, log: logger}

	if flag.NArg() > 0 && inname == "" {
		failed := false
		for _, arg := range flag.Args() {
			failed = !c.eval(os.Stdout, arg) || failed
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			logger.Fatal().Err(err).Msg("couldn't open input")
		}
		defer f.Close()
		err = c.lines(os.Stdout, f)
		if err != nil {
			logger.Fatal().Err(err).Str("in", inname).Msg("reading input failed")
		}
	case isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()):
		if err := c.interactive(); err != nil {
			logger.Fatal().Err(err).Msg("prompt failed")
		}
	default:
		if err := c.lines(os.Stdout, os.Stdin); err != nil {
			logger.Fatal().Err(err).Msg("reading stdin failed")
		}
	}
}

// newLogger creates a console logger at the named level. If the level is
// invalid, the logger is still usable and logs at warn level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).
		With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return logger.Level(zerolog.WarnLevel), err
	}
	return logger.Level(lvl), nil
}

type calc struct {
	ctx  *equation.Context
	verb string
	echo bool
	log  zerolog.Logger
}

// eval evaluates one equation and prints its result or error to w. It reports
// whether evaluation succeeded.
func (c *calc) eval(w io.Writer, src string) bool {
	if c.echo {
		fmt.Fprintf(w, "%s : ", src)
	}
	r, err := c.ctx.Eval(src)
	if err != nil {
		fmt.Fprintln(w, err)
		ev := c.log.Debug().Str("src", src).Err(err)
		var ie equation.InputError
		if errors.As(err, &ie) {
			ev = ev.Int("pos", ie.Pos()).Str("near", near(src, ie.Pos()))
		}
		ev.Msg("evaluation failed")
		return false
	}
	fmt.Fprintf(w, c.verb, r)
	return true
}

// lines evaluates each non-blank line of r.
func (c *calc) lines(w io.Writer, r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !c.eval(w, line) {
			c.log.Info().Int("line", n).Msg("line not evaluated")
		}
	}
	return sc.Err()
}

func (c *calc) interactive() error {
	rl, err := readline.New("= ")
	if err != nil {
		return err
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			if line == "" {
				return nil
			}
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.eval(rl.Stdout(), line)
	}
}

// near returns the part of src starting at the 1-based rune column pos, cut
// to a short length for logging.
func near(src string, pos int) string {
	rs := []rune(src)
	if pos < 1 || pos > len(rs) {
		return ""
	}
	rs = rs[pos-1:]
	if len(rs) > 16 {
		rs = rs[:16]
	}
	return string(rs)
}
