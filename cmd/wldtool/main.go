// wldtool is a CLI utility for working with WRLD world containers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/sting-wld/internal/config"
	"github.com/Faultbox/sting-wld/internal/logger"
	"github.com/Faultbox/sting-wld/internal/store"
	"github.com/Faultbox/sting-wld/internal/workspace"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Settings()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(args)
	case "unpack":
		err = cmdUnpack(ctx, cfg, args)
	case "pack":
		err = cmdPack(ctx, cfg, args)
	case "verify":
		err = cmdVerify(args)
	case "dump":
		err = cmdDump(args)
	case "dialogs":
		err = cmdDialogs(args)
	case "textures":
		err = cmdTextures(ctx, cfg, args)
	case "nodes":
		err = cmdNodes(args)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`wldtool - WRLD world container utility

Usage:
  wldtool [flags] <command> [arguments]

Flags:
  -config <file>       Config file (default ./wldtool.yaml, then the user config file)
  -debug               Debug logging, decode every model while unpacking
  -workers <n>         Model worker pool size
  -compression <name>  Blob compression for unpack: none, lz4 or zstd
  -format <name>       Texture export format: webp or tiff
  -log-file <file>     Append log entries to a rotating file

Commands:
  info <file.wld>                 Show section counts
  unpack <file.wld> [dir]         Unpack into an editable directory
  pack <dir> [out.wld]            Pack a directory back into a world
  verify <file.wld>               Decode, re-encode and compare byte for byte
  dump <file.wld> <section>       Print a section as YAML
  dialogs <pattern>               Decompress dialog files matching a glob
  textures <file.wld> <dir>       Export texture pages as images
  nodes <file.wld> <model> [t]    Show a model's node graph in model space,
                                  posed at time t when given
  config init [file]              Write the default settings to a new file
  config show                     Print the effective settings

Environment:
  WLDTOOL_LOG_LEVEL, WLDTOOL_LOG_FILE, WLDTOOL_WORKERS, WLDTOOL_COMPRESSION,
  WLDTOOL_PACK_VERIFY, WLDTOOL_EXPORT_FORMAT override the config file

Sections:
  textures, model_folders, object_folders, models, objects, macros, tree

Examples:
  wldtool info level.wld
  wldtool -compression zstd unpack level.wld ./level
  wldtool pack ./level level_new.wld
  wldtool dump level.wld objects
  wldtool nodes level.wld barrel
  wldtool dialogs "Dialogs_*.txt"`)
}

func usageError(usage string) error {
	return fmt.Errorf("usage: wldtool %s", usage)
}

// workspaceOptions maps the unpack settings onto workspace options that log
// against the given world.
func workspaceOptions(cfg *config.Config, world string) (workspace.Options, error) {
	codec, err := store.ParseCodec(cfg.Unpack.Compression)
	if err != nil {
		return workspace.Options{}, err
	}
	return workspace.Options{
		Workers:      cfg.Unpack.Workers,
		Compression:  codec,
		VerifyModels: cfg.Unpack.VerifyModels,
		VerifyPacked: cfg.Pack.Verify,
		Log:          logger.ForWorld(world),
	}, nil
}
