package prs313

import (
	"io"
	"log"
	"strconv"
	"strings"
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// DiscardLogger drops everything written to it.
var DiscardLogger Logger = log.New(io.Discard, "", 0)

// ChromosomeToken is replaced by the chromosome number in path templates.
const ChromosomeToken = "{chr}"

// ChromosomePath fills in a per-chromosome path template, e.g.
// "maf/merged_chr{chr}_MAF.csv".
func ChromosomePath(template string, chromosome int) string {
	return strings.ReplaceAll(template, ChromosomeToken, strconv.Itoa(chromosome))
}
