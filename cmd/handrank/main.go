package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Classify ClassifyCmd      `cmd:"" help:"Classify two hole cards and five community cards"`
	Compare  CompareCmd       `cmd:"" help:"Compare several players' hole cards on one board"`
	Deal     DealCmd          `cmd:"" help:"Deal random hands and classify them"`
	Odds     OddsCmd          `cmd:"" help:"Category distribution for hole cards and a partial board"`
	Batch    BatchCmd         `cmd:"" help:"Classify every hand in a YAML file"`
	Serve    ServeCmd         `cmd:"" help:"Serve the classification API over HTTP and WebSocket"`
	History  HistoryCmd       `cmd:"" help:"Inspect recorded classifications"`
	TUI      TUICmd           `cmd:"tui" help:"Interactive dealer"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handrank"),
		kong.Description("Texas Hold'em hand classifier"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
