// Fakebench stands in for the UCT benchmark programs: it accepts the
// dispatcher calling convention (target name, optional -i limit) and
// prints the same log lines the real search variants produce, with
// synthetic values. It exists so the harness can be exercised end to
// end without the search programs installed.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strings"
)

func main() {
	args := os.Args[1:]

	// The dispatcher passes the target name before any flags.
	target := "plain"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		target = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("fakebench", flag.ExitOnError)
	iterMax := fs.Int64("i", 100, "max iteration count")
	parallel := fs.Int("p", runtime.NumCPU(), "parallel worker count")
	moves := fs.Int("moves", 8, "number of search steps to simulate")
	seed := fs.Int64("seed", 1, "random seed")

	if err := fs.Parse(args); err != nil {
		fatal("parse flags: %v", err)
	}

	if *iterMax <= 0 {
		fatal("iteration count must be positive, got %d", *iterMax)
	}

	rng := rand.New(rand.NewSource(*seed))

	fmt.Printf("Target: %s\n", target)
	fmt.Printf("Max iterations: %d\n", *iterMax)
	fmt.Printf("Parallel count: %d\n", *parallel)
	fmt.Println()

	for step := 1; step <= *moves; step++ {
		depth := 3 + rng.Intn(10)
		nodes := *iterMax/2 + rng.Int63n(*iterMax/2+1)

		fmt.Printf("Max search depth: %d\n", depth)
		fmt.Printf("Nodes generated: %d\n", nodes)
		fmt.Println()
	}

	fmt.Println("Game finished!")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fakebench: "+format+"\n", args...)
	os.Exit(1)
}
