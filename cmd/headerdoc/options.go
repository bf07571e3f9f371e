package main

import (
	"headerdoc/internal/config"
	"headerdoc/internal/extractor"
	"headerdoc/internal/generator"
	"headerdoc/internal/pipeline"

	"github.com/spf13/cobra"
)

// buildOptions merges config values with explicitly set flags.
func buildOptions(cmd *cobra.Command, f *rootFlags, cfg *config.Config, source string) (pipeline.Options, error) {
	changed := cmd.Flags().Changed
	pick := func(flag, flagValue, cfgValue string) string {
		if changed(flag) {
			return flagValue
		}
		return cfgValue
	}

	format, err := generator.ParseFormat(pick("format", f.format, cfg.Format))
	if err != nil {
		return pipeline.Options{}, err
	}

	policy, err := extractor.ParsePolicy(cfg.Policy)
	if err != nil {
		return pipeline.Options{}, err
	}
	if changed("strict") {
		policy = extractor.PolicyLenient
		if f.strict {
			policy = extractor.PolicyStrict
		}
	}

	links := cfg.LinksEnabled()
	if changed("links") {
		links = f.links
	}
	toc := cfg.TOC
	if changed("toc") {
		toc = f.toc
	}
	pad := cfg.PadWidth
	if changed("pad") {
		pad = f.pad
	}

	return pipeline.Options{
		Source:  source,
		Output:  pick("out", f.out, cfg.Output),
		Format:  format,
		Grammar: cfg.Grammar,
		Policy:  policy,
		Render: generator.RenderOptions{
			Title:    pick("title", f.title, cfg.Title),
			TOC:      toc,
			Links:    links,
			LinkBase: pick("link-base", f.linkBase, cfg.LinkBase),
			PadWidth: pad,
		},
		JSONPath:   pick("json", f.jsonPath, cfg.Artifacts.JSON),
		ReportPath: pick("report", f.reportPath, cfg.Artifacts.Report),
		DBPath:     pick("db", f.dbPath, cfg.Artifacts.DB),
	}, nil
}
