package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdpress/cmd/mdpress/commands"
	"git.home.luguber.info/inful/mdpress/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("mdpress"),
		kong.Description("Markdown static site builder."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
