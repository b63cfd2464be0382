package app

import (
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/modules/constant"
	"github.com/vk/gridflow/modules/counter"
	"github.com/vk/gridflow/modules/mathop"
	"github.com/vk/gridflow/modules/printer"
	"github.com/vk/gridflow/modules/trigger"
)

// coreModules is the definitive list of all node-kind modules that are
// compiled into the gridflow binary.
var coreModules = []registry.Module{
	&constant.Module{},
	&mathop.Module{},
	&counter.Module{},
	&trigger.Module{},
	&printer.Module{},
}
