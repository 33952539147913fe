package dataprocessing

import (
	"qmtcli/internal/config"
	"qmtcli/pkg/contracts/domain"
)

// Options controls how the parser decodes and exports files
type Options struct {
	TrailingChunkPolicy config.TrailingChunkPolicy
	Workers             int
	Layout              domain.BarLayout // empty means detect from the path
	ProgressEvery       int

	BOM      bool
	Combined bool
	XLSX     bool
}

// OptionsFromConfig extracts parser options from the application config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TrailingChunkPolicy: cfg.Parser.TrailingChunkPolicy,
		Workers:             cfg.Parser.Workers,
		Layout:              domain.BarLayout(cfg.Parser.Layout),
		ProgressEvery:       cfg.Parser.ProgressEvery,
		BOM:                 cfg.Export.BOM,
		Combined:            cfg.Export.Combined,
		XLSX:                cfg.Export.XLSX,
	}
}

func (o Options) normalized() Options {
	if o.TrailingChunkPolicy == "" {
		o.TrailingChunkPolicy = config.TrailingChunkSkip
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ProgressEvery < 1 {
		o.ProgressEvery = config.DefaultProgressEvery
	}
	return o
}
