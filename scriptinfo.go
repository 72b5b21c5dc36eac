package avm2

import "fmt"

// ScriptInfo is a top-level script: an initializer method and the traits
// (typically CLASS traits) it exports into its script object (§3). The
// last entry in Module.Scripts is the entry point (§4.G, §6).
type ScriptInfo struct {
	Init   uint32 // method index
	Traits []TraitInfo
}

func readScriptInfo(r *Reader) (ScriptInfo, error) {
	var s ScriptInfo
	var err error
	if s.Init, err = r.U30(); err != nil {
		return s, fmt.Errorf("init: %w", err)
	}
	if s.Traits, err = readList(r, readTraitInfo); err != nil {
		return s, fmt.Errorf("traits: %w", err)
	}
	return s, nil
}
