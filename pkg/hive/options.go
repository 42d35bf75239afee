package hive

// ExpansionOptions toggles the expansion species.
type ExpansionOptions struct {
	Ladybug  bool
	Mosquito bool
	Pillbug  bool
}

// AllExpansions enables every expansion species.
func AllExpansions() ExpansionOptions {
	return ExpansionOptions{Ladybug: true, Mosquito: true, Pillbug: true}
}

// Options are the immutable per-game settings.
type Options struct {
	// Tournament has no effect at the moment; the UHP does not carry it.
	Tournament bool
	// Expansions enabled on this game.
	Expansions ExpansionOptions
}

// AllOptions returns a fully-featured option set.
func AllOptions() Options {
	return Options{Tournament: true, Expansions: AllExpansions()}
}
