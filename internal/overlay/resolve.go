package overlay

// mergeMode distinguishes the two ways an instruction binds runtimes.
type mergeMode int

const (
	modeLayer mergeMode = iota
	modeReplace
)

// instruction is one tagged step of the merge. Modeling both layers and
// replacements as instructions keeps the fold total and branch-free: a
// later layer overwrites earlier bindings key by key, and a replacement is
// just the highest-precedence write for its key.
type instruction struct {
	mode  mergeMode
	layer Layer
	repl  Replacement
}

// Resolve folds the base config and overlay layers left to right, lowest
// precedence first, then applies replacements as a final per-key override.
// Bindings are whole values: a later layer's entry fully replaces an
// earlier one, never partially combines with it.
func Resolve(base map[string]string, layers []Layer, replacements []Replacement) Pinning {
	instrs := make([]instruction, 0, len(layers)+len(replacements)+1)
	instrs = append(instrs, instruction{mode: modeLayer, layer: Layer{Source: SourceConfig, Pins: base}})
	for _, layer := range layers {
		instrs = append(instrs, instruction{mode: modeLayer, layer: layer})
	}
	for _, repl := range replacements {
		instrs = append(instrs, instruction{mode: modeReplace, repl: repl})
	}

	pinning := Pinning{}
	for _, in := range instrs {
		apply(pinning, in)
	}
	return pinning
}

func apply(pinning Pinning, in instruction) {
	switch in.mode {
	case modeLayer:
		for name, version := range in.layer.Pins {
			pinning[name] = Binding{Version: version, Source: in.layer.Source, Path: in.layer.Path}
		}
	case modeReplace:
		pinning[in.repl.Runtime] = Binding{Version: in.repl.Version, Source: SourceReplace}
	}
}
