package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Config file (default ./wldtool.yaml, then the user config file)")
	flagDebug       = flag.Bool("debug", false, "Debug logging and decode every model while unpacking")
	flagWorkers     = flag.Int("workers", 0, "Model worker pool size")
	flagCompression = flag.String("compression", "", "Blob compression: none, lz4 or zstd")
	flagFormat      = flag.String("format", "", "Texture export format: webp or tiff")
	flagLogFile     = flag.String("log-file", "", "Append log entries to a rotating file")
)

// ParseFlags parses the command line. Call it before Load.
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the flags.
func Args() []string {
	return flag.Args()
}

// applyFlags applies flags that were set.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Unpack.VerifyModels = true
	}
	if *flagWorkers > 0 {
		cfg.Unpack.Workers = *flagWorkers
	}
	if *flagCompression != "" {
		cfg.Unpack.Compression = *flagCompression
	}
	if *flagFormat != "" {
		cfg.Export.Format = *flagFormat
	}
	if *flagLogFile != "" {
		cfg.Logging.File = *flagLogFile
	}
}
