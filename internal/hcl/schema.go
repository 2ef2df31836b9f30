package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/stagegraph/internal/config"
)

// fileRoot is used to decode the top-level blocks of every file.
type fileRoot struct {
	Tasks []*taskBlock `hcl:"task,block"`
}

type taskBlock struct {
	Name         string   `hcl:"name,label"`
	Timeout      *string  `hcl:"timeout,optional"`
	MaxSolutions *int     `hcl:"max_solutions,optional"`
	Remain       hcl.Body `hcl:",remain"`
}

// stageBody holds the attributes shared by containers and leaf stages.
type stageBody struct {
	Timeout *string  `hcl:"timeout,optional"`
	Remain  hcl.Body `hcl:",remain"`
}

const leafBlock = "stage"

// stageSchema lists the block types that describe a stage.
var stageSchema = func() *hcl.BodySchema {
	s := &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: leafBlock, LabelNames: []string{"kind", "name"}}},
	}
	for _, kind := range config.ContainerKinds {
		s.Blocks = append(s.Blocks, hcl.BlockHeaderSchema{Type: kind, LabelNames: []string{"name"}})
	}
	return s
}()
