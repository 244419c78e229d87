package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/voxstorm/internal/config"
	"github.com/dshills/voxstorm/internal/script"
)

func newRunCmd(configPath *string) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "run <script.lua> [<script.lua>...]",
		Short: "run lua edit scripts against a fresh document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}
			engine := script.NewEngine(sess, nil)
			for _, path := range args {
				if err := engine.RunFile(path); err != nil {
					return err
				}
			}
			if dump {
				fmt.Print(sess.History().Dump())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the history log after running")
	return cmd
}
