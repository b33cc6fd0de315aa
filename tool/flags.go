package tool

import (
	"flag"

	"github.com/moyoez/editor-bridge/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override listen port")
	flag.IntVar(&cfg.UseChunkSize, "useChunkSize", 0, "override chunk size for both binary and text chunks")
	flag.BoolVar(&cfg.UseAllowRemote, "useAllowRemote", false, "accept editor calls from non-loopback addresses")
	flag.BoolVar(&cfg.SkipNotify, "skipNotify", false, "if true, do not forward notifications to the host unix socket")
	flag.StringVar(&cfg.PushImage, "pushImage", "", "producer mode: upload this image to -target and print the reference")
	flag.StringVar(&cfg.PushText, "pushText", "", "producer mode: send this document to -target as a text change")
	flag.StringVar(&cfg.Target, "target", "http://127.0.0.1:53318", "producer mode: bridge base URL")
	flag.StringVar(&cfg.Editor, "editor", "", "producer mode: editor id (a new editor is set up when empty)")
	flag.Parse()
	return cfg
}

// ApplyFlagOverrides merges non-zero flag values into cfg.
func ApplyFlagOverrides(cfg *types.AppConfig, flags types.Config) {
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.UseChunkSize > 0 {
		cfg.ChunkSize = flags.UseChunkSize
		cfg.TextChunkSize = flags.UseChunkSize
	}
	if flags.UseAllowRemote {
		cfg.AllowRemote = true
	}
	if flags.SkipNotify {
		cfg.NotifySocket = ""
	}
}
