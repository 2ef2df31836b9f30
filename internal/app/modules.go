package app

import (
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/modules/connect"
	"github.com/specialistvlad/stagegraph/modules/generator"
	"github.com/specialistvlad/stagegraph/modules/propagate"
)

// coreModules is the definitive list of all stage modules that are compiled
// into the stagegraph binary.
var coreModules = []registry.Module{
	&generator.Module{},
	&propagate.Module{},
	&connect.Module{},
}

// CoreModules returns the built-in modules. Callers adding their own stage
// kinds pass these along to keep the built-in ones.
func CoreModules() []registry.Module {
	return append([]registry.Module(nil), coreModules...)
}
