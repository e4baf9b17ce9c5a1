package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type rootOptions struct {
	configPath string
	cfg        Config
}

// NewRootCmd builds the dibserver command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{cfg: defaultConfig()}
	cmd := &cobra.Command{
		Use:   "dibserver",
		Short: "Serve a hosted blog next to local pages",
		Long: `dibserver serves a site from a directory or git branch and mounts the
hosted blog below a base path. Sitemap and feeds are passed through as XML,
blog pages are rendered into an HTML document, everything else is served
from the site's pages and static files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "path to the YAML config file (default "+DefaultConfigFile+")")
	cmd.PersistentFlags().StringVar(&o.cfg.Blog.BasePath, "base-path", "", "path prefix of the blog")
	cmd.PersistentFlags().StringVar(&o.cfg.Blog.BlogID, "blog-id", "", "blog id at the upstream api")
	cmd.PersistentFlags().BoolVar(&o.cfg.Debug, "debug", false, "set debug output")

	cmd.AddCommand(newServeCmd(o), newClassifyCmd(o))
	return cmd
}

// load reads the config file and lays the flags that were set on top.
func (o *rootOptions) load(cmd *cobra.Command) (Config, error) {
	path := o.configPath
	if path == "" {
		path = DefaultConfigFile
	}
	cfg, err := LoadConfigFile(path)
	if err != nil && !(errors.Is(err, ErrConfigNotFound) && o.configPath == "") {
		return cfg, errors.Wrapf(err, "config %q", path)
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("base-path", func() { cfg.Blog.BasePath = o.cfg.Blog.BasePath })
	set("blog-id", func() { cfg.Blog.BlogID = o.cfg.Blog.BlogID })
	set("debug", func() { cfg.Debug = o.cfg.Debug })
	set("bind", func() { cfg.Bind = o.cfg.Bind })
	set("net", func() { cfg.Network = o.cfg.Network })
	set("prefix", func() { cfg.Prefix = o.cfg.Prefix })
	set("git", func() { cfg.Git = o.cfg.Git })
	set("branch", func() { cfg.Branch = o.cfg.Branch })
	set("site-name", func() { cfg.SiteName = o.cfg.SiteName })
	set("sanitize", func() { cfg.Sanitize = o.cfg.Sanitize })
	applyEnv(&cfg)
	return cfg, nil
}
