package main

import (
	"github.com/joshuapare/ndkit/internal/logger"
	"github.com/joshuapare/ndkit/nd"
	"github.com/joshuapare/ndkit/nd/java"
)

// openEngine opens path with every schema ndctl knows about registered.
func openEngine(path string, readOnly bool) (*nd.Nd, *java.Layouts, error) {
	reg := nd.NewRegistry()
	ls, err := java.Register(reg)
	if err != nil {
		return nil, nil, err
	}
	opts := nd.DefaultOptions()
	opts.Logger = logger.L
	opts.DB.ReadOnly = readOnly
	n, err := nd.Open(path, reg, opts)
	if err != nil {
		return nil, nil, err
	}
	return n, ls, nil
}
