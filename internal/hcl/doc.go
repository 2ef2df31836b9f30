// Package hcl provides the concrete HCL implementation for the task loading
// and attribute binding interfaces defined in the `config` package.
// It is responsible for file parsing, HCL-to-model translation, and
// CTY-to-Go data binding.
//
// A task file has a single `task` block holding exactly one root stage:
//
//	task "pick" {
//	  timeout       = "5s"
//	  max_solutions = 3
//
//	  serial "pipeline" {
//	    stage "generator" "start" {
//	      costs = [1, 2]
//	    }
//	    wrapper "bounded" {
//	      max_cost = 10
//	      stage "forward" "move" {
//	        cost = 1
//	      }
//	    }
//	  }
//	}
//
// Containers are written as `serial`, `alternatives`, `fallbacks` and
// `wrapper` blocks labelled with their name. Leaf stages are `stage` blocks
// labelled with their kind and name. Every stage accepts a `timeout`; all
// other attributes are passed on to the stage.
package hcl
