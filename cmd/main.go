package main

import (
	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("move-analyzer"),
		kong.Description("Move language analyzer"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

type CLI struct {
	Build   BuildCmd   `cmd:"" help:"Compile every package of a workspace and refresh the file index." aliases:"index"`
	Check   CheckCmd   `cmd:"" help:"Report compile problems of a workspace."`
	Refs    RefsCmd    `cmd:"" help:"List the references of the entity at a position."`
	Fmt     FmtCmd     `cmd:"" help:"Format a Move source file."`
	New     NewCmd     `cmd:"" help:"Create a new package."`
	Lsp     LspCmd     `cmd:"" help:"Run the LSP server."`
	Version VersionCmd `cmd:"" help:"Show version."`
}
