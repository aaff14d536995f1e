package main

import (
	"io"
	"log"
	"os"

	"github.com/movebit/move-analyzer/cmd/lsp"
)

type LspCmd struct {
	Stdio   bool   `help:"(internal) LSP clients pass this flag. Safe to ignore." name:"stdio"`
	LogFile string `help:"Write logs to this file instead of stderr." type:"path"`
}

func (l *LspCmd) Run() error {
	log.SetFlags(0)
	var out io.Writer = os.Stderr
	if l.LogFile != "" {
		f, err := os.OpenFile(l.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	log.SetOutput(out)
	return lsp.RunLSP()
}
