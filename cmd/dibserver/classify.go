package main

import (
	"fmt"

	"github.com/lemmi/dropinblog"
	"github.com/lemmi/dropinblog/core"
	"github.com/spf13/cobra"
)

func newClassifyCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [path]...",
		Short: "Show how request paths are routed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			blog := cfg.Blog.Defaults()
			c := dropinblog.NewClassifier(blog.BasePath, core.NewRouter(blog.BasePath, nil))
			out := cmd.OutOrStdout()
			for _, p := range args {
				np := core.NormalizePathname(p)
				route, err := c.Classify(np)
				if err != nil {
					fmt.Fprintf(out, "%s\terror: %v\n", np, err)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", np, route)
			}
			return nil
		},
	}
}
