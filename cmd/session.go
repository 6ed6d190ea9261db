package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mabhi256/cgdiag/internal/debuglog"
	"github.com/mabhi256/cgdiag/internal/image"
	"github.com/mabhi256/cgdiag/internal/pretty"
	"github.com/mabhi256/cgdiag/internal/render"
	"github.com/mabhi256/cgdiag/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// session is one loaded snapshot with the Cgui printers registered
type session struct {
	path  string
	img   *image.Image
	table *pretty.LookupTable
	log   *debuglog.Logger
}

func openSession(path string) (*session, error) {
	var log *debuglog.Logger
	if debug || debugLogFile != "" {
		l, err := debuglog.Open(debugLogFile)
		if err != nil {
			return nil, err
		}
		log = l
		fmt.Fprintf(os.Stderr, "🐛 Debug log: %s\n", log.Path())
	}

	img, err := image.Open(path)
	if err != nil {
		log.Close()
		return nil, err
	}

	for _, w := range img.Warnings {
		log.Warning(path, w)
		fmt.Fprintf(os.Stderr, "⚠️  %s: %s\n", path, w)
	}

	table := pretty.NewLookupTable()
	table.Append(pretty.NewDispatcher(img, pretty.WithObserver(log.Observer())).Lookup)

	return &session{path: path, img: img, table: table, log: log}, nil
}

func (s *session) Close() error {
	return s.log.Close()
}

// roots renders each expression; with none given, every global is shown
func (s *session) roots(r *render.Renderer, exprs []string) []*render.Node {
	if len(exprs) == 0 {
		for _, g := range s.img.Globals() {
			exprs = append(exprs, g.Name)
		}
	}

	nodes := make([]*render.Node, 0, len(exprs))
	for _, expr := range exprs {
		v, err := s.img.Eval(expr)
		if err != nil {
			s.log.Record("eval_failed", map[string]string{"expr": expr, "error": err.Error()})
			nodes = append(nodes, render.Failed(expr, err))
			continue
		}
		nodes = append(nodes, r.Render(expr, v))
	}
	return nodes
}

// terminalConfig fills in color and width from the attached terminal
func terminalConfig(config render.Config) render.Config {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) || os.Getenv("NO_COLOR") != "" {
		config.Color = false
		return config
	}
	if width, _, err := term.GetSize(fd); err == nil && config.Width == 0 {
		config.Width = width
	}
	return config
}

func completeSnapshotArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return utils.CompleteFilesByExtension(snapshotExtensions)(cmd, args, toComplete)
	}

	// later arguments are expressions; offer the snapshot's globals
	img, err := image.Open(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, g := range img.Globals() {
		if strings.HasPrefix(g.Name, toComplete) {
			names = append(names, fmt.Sprintf("%s\t%s", g.Name, g.Type.Name))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func validateSnapshot(path string) error {
	if !utils.HasExtension(path, snapshotExtensions) {
		return fmt.Errorf("invalid snapshot file: %s (expected %s)", path, strings.Join(snapshotExtensions, ", "))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	return nil
}
