package main

import (
	"golang.org/x/tools/go/analysis"

	"pinboard.app/api/tools/linters/enumvalidator"
)

// New is the golangci-lint plugin entrypoint.
func New(conf any) ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{enumvalidator.Analyzer}, nil
}

// main is unused; the package is loaded as a plugin via New.
func main() {}
