package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	crank "github.com/bikeshaving/crank-go"
	"github.com/bikeshaving/crank-go/component"
	"github.com/bikeshaving/crank-go/examples/components"
	"github.com/bikeshaving/crank-go/gen"
	"github.com/bikeshaving/crank-go/hosttest"
)

type demo struct {
	callable any
	initial  crank.Props
	desc     string
}

var demos = map[string]demo{
	"greeting": {
		callable: components.Greeting,
		initial:  crank.Props{"name": "world"},
		desc:     "plain component, re-invoked per render",
	},
	"counter": {
		callable: components.Counter,
		initial:  crank.Props{},
		desc:     "generator component with suspended state",
	},
	"timer": {
		callable: components.Timer,
		initial:  crank.Props{},
		desc:     "async generator component",
	},
	"fetcher": {
		callable: components.Fetcher,
		initial:  crank.Props{"url": "https://example.com"},
		desc:     "coroutine component, awaited per render",
	},
}

func main() {
	var (
		name        = flag.String("component", "", "Demo component to mount")
		frames      = flag.Int("frames", 3, "Number of frames to render")
		propArg     = flag.String("props", "", "Initial props (key=val,key2=val2)")
		list        = flag.Bool("list", false, "List demo components and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose adapter logging")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		component.SetLogger(log)
		gen.SetLogger(log)
	}

	if *list {
		listDemos()
		return
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *name == "" {
		fmt.Fprintln(os.Stderr, "Usage: crank-demo -component <name> [-frames n] [-props k=v,...]")
		fmt.Fprintln(os.Stderr, "       crank-demo -list")
		fmt.Fprintln(os.Stderr, "       crank-demo -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*name, *frames, *propArg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listDemos() {
	names := make([]string, 0, len(demos))
	for n := range demos {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Println("Demo components:")
	for _, n := range names {
		fmt.Printf("  %-10s %s\n", n, demos[n].desc)
	}
}

func run(name string, frames int, propArg string) error {
	d, ok := demos[name]
	if !ok {
		return fmt.Errorf("unknown component %q, try -list", name)
	}

	initial := d.initial
	if propArg != "" {
		initial = parseProps(propArg)
	}

	c, err := component.Adapt(d.callable)
	if err != nil {
		return fmt.Errorf("adapt: %w", err)
	}
	if sig, ok := c.Signature(); ok {
		fmt.Printf("Component: %s (%s, arity %d)\n\n", name, sig.Kind, sig.Arity)
	} else {
		fmt.Printf("Component: %s (classified on first render)\n\n", name)
	}

	m, err := hosttest.NewEngine().Mount(c, initial)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	defer m.Unmount()

	for i := 0; i < frames; i++ {
		var (
			frame crank.Renderable
			done  bool
		)
		if i == 0 {
			frame, done, err = m.RenderNext()
		} else {
			frame, done, err = m.UpdateProps(initial)
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		fmt.Printf("--- frame %d ---\n%s\n", i+1, renderText(frame))
		if done {
			break
		}
	}
	return nil
}

func parseProps(s string) crank.Props {
	p := crank.Props{}
	for _, kv := range strings.Split(s, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			p[parts[0]] = parts[1]
		}
	}
	return p
}
