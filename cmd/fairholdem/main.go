package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the game server"`
	Verify  VerifyCmd        `cmd:"" help:"Check a revealed seed against its commitment"`
	Config  ConfigCmd        `cmd:"" help:"Manage the configuration file"`
}

func main() {
	// A .env file is optional; values already in the environment win.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fairholdem"),
		kong.Description("Multiplayer Texas Hold'em with provably fair shuffles"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
