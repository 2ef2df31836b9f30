package app

import (
	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/fsutil"
	"github.com/specialistvlad/stagegraph/internal/hcl"
	"github.com/specialistvlad/stagegraph/internal/yamlconfig"
)

// LoaderFor picks the task file format found below paths. YAML is used only
// when there are YAML files and no HCL files; everything else goes to the
// HCL loader, which also reports missing task files.
func LoaderFor(paths []string) config.Loader {
	hclFiles, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil || len(hclFiles) > 0 {
		return hcl.NewLoader()
	}
	yamlFiles, err := fsutil.FindFiles(paths, yamlconfig.Extensions...)
	if err == nil && len(yamlFiles) > 0 {
		return yamlconfig.NewLoader()
	}
	return hcl.NewLoader()
}
