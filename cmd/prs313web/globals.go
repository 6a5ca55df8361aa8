package main

import (
	"github.com/carbocation/prs313/pipeline"
	"github.com/carbocation/prs313/resultstore"
)

// Global is shared by every request. Resources and Config are read-only
// after startup.
type Global struct {
	log       logger
	store     *resultstore.Store
	resources *pipeline.Resources

	Config pipeline.Config

	// Upper bound on trials a request may ask for
	MaxTrials int

	// Upper bound on the size of an uploaded genotype file, in bytes
	MaxUpload int64
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
