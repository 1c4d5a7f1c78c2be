// Command tyde retargets Dalvik bytecode classes into the textual,
// stack-based assembler dialect the core pipeline (C1-C7) understands,
// one input container at a time.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"tyde/internal/constpool"
	"tyde/internal/dexfile"
	"tyde/internal/ledger"
	"tyde/internal/progress"
	"tyde/internal/verifier"
)

const version = "tyde 0.1.0"

type options struct {
	outDir        string
	ignoreCRC     bool
	tmpDir        string
	classFilter   string
	noSplitTries  bool
	stubsDir      string
	verifierFile  string
	branchLimit   int
	showVersion   bool
	workers       int
	ledgerDSN     string
	progressAddr  string
	debug         bool
}

func parseFlags(args []string) (*options, []string, error) {
	fs := flag.NewFlagSet("tyde", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.outDir, "d", ".", "output directory for emitted classes")
	fs.BoolVar(&o.ignoreCRC, "i", false, "ignore the container's stored checksum")
	fs.StringVar(&o.tmpDir, "t", os.TempDir(), "scratch directory")
	fs.StringVar(&o.classFilter, "c", "", "colon-separated class descriptors to process (default: all)")
	fs.BoolVar(&o.noSplitTries, "e", false, "disable try-region splitting at throwing instructions")
	fs.StringVar(&o.stubsDir, "s", "", "directory to write synthesized stub classes into")
	fs.StringVar(&o.verifierFile, "p", "", "verifier-annotation file path")
	fs.IntVar(&o.branchLimit, "l", 5000, "branch-range limit before trampoline splicing")
	fs.BoolVar(&o.showVersion, "v", false, "print version and exit")
	fs.IntVar(&o.workers, "j", runtime.NumCPU(), "per-class worker pool parallelism")
	fs.StringVar(&o.ledgerDSN, "ledger", "", "DSN of a run ledger database to record into")
	fs.StringVar(&o.progressAddr, "progress", "", "address to serve a live progress WebSocket feed on")
	fs.BoolVar(&o.debug, "debug", false, "dump resolved IR with kr/pretty before emission")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return o, fs.Args(), nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, positional, err := parseFlags(args)
	if err != nil {
		return 2
	}
	if opts.showVersion {
		fmt.Println(version)
		return 0
	}
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tyde [flags] <input.dex>")
		return 2
	}

	color := isatty.IsTerminal(os.Stdout.Fd())

	data, err := os.ReadFile(positional[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tyde: reading %s: %v\n", positional[0], err)
		return 1
	}
	dex, err := dexfile.Open(data, !opts.ignoreCRC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tyde: parsing %s: %v\n", positional[0], err)
		return 1
	}

	var annotations verifier.Annotations
	if opts.verifierFile != "" {
		f, openErr := os.Open(opts.verifierFile)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "tyde: opening verifier annotations: %v\n", openErr)
			return 1
		}
		parsed, warnings, parseErr := verifierParse(f)
		f.Close()
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "tyde: parsing verifier annotations: %v\n", parseErr)
			return 1
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "tyde: %s\n", w)
		}
		annotations = parsed
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "tyde: creating output directory: %v\n", err)
		return 1
	}

	var ldg *ledger.Ledger
	var runID uuid.UUID
	if opts.ledgerDSN != "" {
		ldg, err = ledger.Open(opts.ledgerDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tyde: %v\n", err)
			return 1
		}
		defer ldg.Close()
		runID, err = ldg.StartRun(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "tyde: %v\n", err)
			return 1
		}
	}

	var feed *progress.Broadcaster
	if opts.progressAddr != "" {
		feed = progress.NewBroadcaster(opts.progressAddr)
		if err := feed.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "tyde: %v\n", err)
			return 1
		}
		defer feed.Close()
	}

	p := &pipeline{
		dex:         dex,
		opts:        opts,
		annotations: annotations,
		ledger:      ldg,
		runID:       runID,
		feed:        feed,
		stubs:       constpool.NewStubRegistry(),
	}

	classes := filterClasses(dex.Classes, opts.classFilter)

	start := time.Now()
	eg := &errgroup.Group{}
	eg.SetLimit(maxInt(1, opts.workers))

	results := make([]*classResult, len(classes))
	for i, c := range classes {
		i, c := i, c
		eg.Go(func() error {
			results[i] = p.processClass(c)
			return nil
		})
	}
	eg.Wait()

	totalMethods, totalConflicts, totalStubs := 0, 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		totalMethods += r.methods
		totalConflicts += r.conflicts
		totalStubs += r.stubs
		if opts.debug {
			fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(r))
		}
	}

	if ldg != nil {
		ldg.FinishRun(context.Background(), runID, len(classes), totalMethods)
	}

	writeStubs(p, opts.stubsDir)

	summary := fmt.Sprintf("%s classes, %s methods, %s conflicts, %s stubs in %s",
		humanize.Comma(int64(len(classes))), humanize.Comma(int64(totalMethods)),
		humanize.Comma(int64(totalConflicts)), humanize.Comma(int64(totalStubs)),
		time.Since(start).Round(time.Millisecond))
	if color {
		fmt.Printf("\033[1m%s\033[0m\n", summary)
	} else {
		fmt.Println(summary)
	}

	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func filterClasses(classes []dexfile.Class, filter string) []dexfile.Class {
	if filter == "" {
		return classes
	}
	wanted := make(map[string]bool)
	for _, d := range splitColon(filter) {
		wanted[d] = true
	}
	var out []dexfile.Class
	for _, c := range classes {
		if wanted[c.Descriptor] {
			out = append(out, c)
		}
	}
	return out
}

func splitColon(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ':' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// verifierParse is a thin indirection so the annotations variable above
// can be declared once even though Parse is only invoked conditionally.
func verifierParse(f *os.File) (verifier.Annotations, []string, error) {
	return verifier.Parse(f)
}
