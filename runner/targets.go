package runner

// Target describes one benchmark program behind the dispatcher.
type Target struct {
	Name    string
	Command string
	Args    []string
}

// KnownTargets returns the benchmark target names in their fixed
// run order.
func KnownTargets() []string {
	return []string{
		"plain",
		"root-parallel",
		"tree-parallel",
		"leaf-parallel",
		"pickling",
	}
}

// ResolveTargets maps every known target to a dispatcher invocation.
// The default invocation is `<dispatcher> <name>`; an entry in
// overrides replaces the whole command line for that target.
func ResolveTargets(dispatcher string, overrides map[string][]string) []Target {
	names := KnownTargets()
	targets := make([]Target, 0, len(names))

	for _, name := range names {
		if argv, ok := overrides[name]; ok && len(argv) > 0 {
			targets = append(targets, Target{
				Name:    name,
				Command: argv[0],
				Args:    argv[1:],
			})

			continue
		}

		targets = append(targets, Target{
			Name:    name,
			Command: dispatcher,
			Args:    []string{name},
		})
	}

	return targets
}
