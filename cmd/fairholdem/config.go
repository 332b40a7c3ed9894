package main

import (
	"fmt"

	"github.com/lox/fairholdem/internal/server"
)

// ConfigCmd groups configuration helpers.
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a configuration file with the defaults"`
}

// ConfigInitCmd writes the default configuration.
type ConfigInitCmd struct {
	Path  string `arg:"" default:"fairholdem.hcl" help:"Where to write the file"`
	Force bool   `short:"f" help:"Replace an existing file"`
}

func (c *ConfigInitCmd) Run() error {
	if err := server.DefaultConfig().Save(c.Path, c.Force); err != nil {
		return err
	}
	fmt.Println("Wrote", c.Path)
	return nil
}
