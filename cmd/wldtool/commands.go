package main

import (
	"context"
	"fmt"
	"io"
	stdmath "math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sting-wld/internal/config"
	"github.com/Faultbox/sting-wld/internal/logger"
	"github.com/Faultbox/sting-wld/internal/workspace"
	"github.com/Faultbox/sting-wld/pkg/dialog"
	"github.com/Faultbox/sting-wld/pkg/formats"
	"github.com/Faultbox/sting-wld/pkg/math"
	"github.com/Faultbox/sting-wld/pkg/texture"
)

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return usageError("info <file.wld>")
	}
	w, err := formats.ParseWorldFile(args[0], formats.DecodeOptions{RawModels: true})
	if err != nil {
		return err
	}

	var ground, objects, shadows int
	for _, n := range w.Nodes {
		switch p := n.Payload.(type) {
		case *formats.GroundData:
			ground++
			if p.Shadow != nil {
				shadows++
			}
		case *formats.ObjectData:
			objects++
		}
	}

	fmt.Printf("World:          %s\n", args[0])
	fmt.Printf("Texture pages:  %d\n", len(w.TexturePages))
	fmt.Printf("Model folders:  %d\n", len(w.ModelFolders))
	fmt.Printf("Object folders: %d\n", len(w.ObjectFolders))
	fmt.Printf("Models:         %d\n", len(w.Models))
	fmt.Printf("Objects:        %d\n", len(w.Objects))
	fmt.Printf("Macros:         %d\n", len(w.Macros))
	fmt.Printf("Tree nodes:     %d (%d ground, %d with shadows, %d objects)\n", len(w.Nodes), ground, shadows, objects)
	return nil
}

func cmdUnpack(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return usageError("unpack <file.wld> [dir]")
	}
	dir := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	if len(args) > 1 {
		dir = args[1]
	}
	opts, err := workspaceOptions(cfg, args[0])
	if err != nil {
		return err
	}
	done := logger.Timed(opts.Log, "unpack", zap.String("dir", dir))
	if err := workspace.Unpack(ctx, args[0], dir, opts); err != nil {
		return err
	}
	done()
	return nil
}

func cmdPack(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return usageError("pack <dir> [out.wld]")
	}
	out := filepath.Clean(args[0]) + ".wld"
	if len(args) > 1 {
		out = args[1]
	}
	opts, err := workspaceOptions(cfg, out)
	if err != nil {
		return err
	}
	done := logger.Timed(opts.Log, "pack", zap.String("dir", args[0]))
	if err := workspace.Pack(ctx, args[0], out, opts); err != nil {
		return err
	}
	done()
	return nil
}

func cmdVerify(args []string) error {
	if len(args) < 1 {
		return usageError("verify <file.wld>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	w, err := formats.ParseWorld(data)
	if err != nil {
		return err
	}
	encoded, err := formats.EncodeWorld(w)
	if err != nil {
		return err
	}
	if off := firstDiff(data, encoded); off >= 0 {
		return fmt.Errorf("re-encoded world differs at offset %d (%d bytes, original %d)", off, len(encoded), len(data))
	}
	fmt.Printf("OK: %s re-encodes to identical %d bytes\n", args[0], len(data))
	return nil
}

// firstDiff returns the offset of the first byte where encoded departs from
// original, or -1 when none does. Original bytes past the end of encoded
// follow the EOF chunk and are not compared.
func firstDiff(original, encoded []byte) int {
	n := len(encoded)
	if len(original) < n {
		n = len(original)
	}
	for i := 0; i < n; i++ {
		if original[i] != encoded[i] {
			return i
		}
	}
	if len(original) < len(encoded) {
		return n
	}
	return -1
}

// sections maps dump section names to the part of a world they select.
var sections = map[string]func(*formats.World) interface{}{
	"textures":       func(w *formats.World) interface{} { return w.TexturePages },
	"model_folders":  func(w *formats.World) interface{} { return w.ModelFolders },
	"object_folders": func(w *formats.World) interface{} { return w.ObjectFolders },
	"models":         func(w *formats.World) interface{} { return w.Models },
	"objects":        func(w *formats.World) interface{} { return w.Objects },
	"macros":         func(w *formats.World) interface{} { return w.Macros },
	"tree":           func(w *formats.World) interface{} { return w.Nodes },
}

func cmdDump(args []string) error {
	if len(args) < 2 {
		return usageError("dump <file.wld> <section>")
	}
	pick, ok := sections[args[1]]
	if !ok {
		return fmt.Errorf("unknown section %q", args[1])
	}
	w, err := formats.ParseWorldFile(args[0], formats.DecodeOptions{})
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(pick(w)); err != nil {
		return err
	}
	return enc.Close()
}

func cmdDialogs(args []string) error {
	if len(args) < 1 {
		return usageError("dialogs <pattern>")
	}
	files, err := filepath.Glob(args[0])
	if err != nil {
		return err
	}
	count := 0
	for _, name := range files {
		if strings.Contains(name, "decompressed") {
			continue
		}
		out, err := decompressDialog(name)
		if err != nil {
			logger.Warn("skipping dialog file", zap.String("file", name), zap.Error(err))
			continue
		}
		logger.Info("dialog decompressed", zap.String("file", name), zap.String("out", out))
		count++
	}
	fmt.Fprintf(os.Stderr, "(%d of %d files decompressed)\n", count, len(files))
	return nil
}

// decompressDialog writes the plain text of a dialog file next to it and
// returns the output path.
func decompressDialog(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	text, err := dialog.Decompress(data)
	if err != nil {
		return "", err
	}
	out := strings.TrimSuffix(name, filepath.Ext(name)) + "_decompressed.txt"
	return out, os.WriteFile(out, text, 0o644)
}

func cmdTextures(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return usageError("textures <file.wld> <dir>")
	}
	format, err := texture.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}
	opts, err := workspaceOptions(cfg, args[0])
	if err != nil {
		return err
	}
	w, err := formats.ParseWorldFile(args[0], formats.DecodeOptions{RawModels: true})
	if err != nil {
		return err
	}
	done := logger.Timed(opts.Log, "textures exported", zap.Int("pages", len(w.TexturePages)), zap.String("dir", args[1]))
	if err := workspace.ExportTextures(ctx, w, args[1], format, cfg.Export.SubTextures, opts); err != nil {
		return err
	}
	done()
	return nil
}

func cmdNodes(args []string) error {
	if len(args) < 2 {
		return usageError("nodes <file.wld> <model name|index> [time]")
	}
	var at *float32
	if len(args) > 2 {
		t, err := strconv.ParseFloat(args[2], 32)
		if err != nil {
			return fmt.Errorf("time %q: %w", args[2], err)
		}
		f := float32(t)
		at = &f
	}
	w, err := formats.ParseWorldFile(args[0], formats.DecodeOptions{})
	if err != nil {
		return err
	}
	m := findModel(w, args[1])
	if m == nil {
		return fmt.Errorf("model %q not found", args[1])
	}
	return printNodes(os.Stdout, m, at)
}

// findModel matches key against model names first, then indexes.
func findModel(w *formats.World, key string) *formats.Model {
	for i := range w.Models {
		if w.Models[i].Name == key {
			return &w.Models[i]
		}
	}
	if idx, err := strconv.Atoi(key); err == nil {
		for i := range w.Models {
			if w.Models[i].Index == int32(idx) {
				return &w.Models[i]
			}
		}
	}
	return nil
}

// printNodes lists every node of m with its origin and orientation in model
// space, posed at time at when it is set. Frames also report how far the
// stored matrix is from the one their channels compose to; joints report
// their orientation and meshes their winding and bounds.
func printNodes(out io.Writer, m *formats.Model, at *float32) error {
	if m.NMF == nil {
		return fmt.Errorf("model %q: %w", m.Name, formats.ErrMissingPayload)
	}
	fmt.Fprintf(out, "Model %s (%d nodes)\n", m.Name, len(m.NMF.Nodes))
	for i := range m.NMF.Nodes {
		n := &m.NMF.Nodes[i]
		var (
			world math.Mat4
			err   error
		)
		if at != nil {
			world, err = m.NMF.PoseMatrix(n.Index, *at)
		} else {
			world, err = m.NMF.WorldMatrix(n.Index)
		}
		if err != nil {
			return err
		}
		pos, rot := world.Translation(), world.EulerXYZ()
		fmt.Fprintf(out, "%4d %s %-24q parent %-4d pos (%.3f, %.3f, %.3f) rot (%.3f, %.3f, %.3f)",
			n.Index, n.Tag(), n.Name, n.Parent, pos.X, pos.Y, pos.Z, rot.X, rot.Y, rot.Z)

		switch d := n.Data.(type) {
		case *formats.Root:
			fmt.Fprintf(out, " drift %.4g", drift(n.LocalMatrix(), d.Compose()))
		case *formats.Frame:
			fmt.Fprintf(out, " drift %.4g", drift(n.LocalMatrix(), d.Compose()))
		case *formats.Joint:
			o := d.Orient()
			fmt.Fprintf(out, " orient (%.3f, %.3f, %.3f)", o.X, o.Y, o.Z)
		case *formats.Mesh:
			winding := "right"
			if !d.RightHanded() {
				winding = "left"
			}
			fmt.Fprintf(out, " %s handed", winding)
			if lo, hi, ok := d.Bounds(world); ok {
				fmt.Fprintf(out, " bounds (%.3f, %.3f, %.3f)..(%.3f, %.3f, %.3f)", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

// drift returns the largest element difference between a and b.
func drift(a, b math.Mat4) float64 {
	var d float64
	for i := range a {
		d = stdmath.Max(d, stdmath.Abs(float64(a[i]-b[i])))
	}
	return d
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return usageError("config init [file] | config show")
	}
	switch args[0] {
	case "init":
		return initConfig(args[1:])
	case "show":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown config command %q", args[0])
}

// initConfig writes the default settings to the file in args, or to the
// user config file when args is empty.
func initConfig(args []string) error {
	cfg := config.Default()
	path := config.UserFile()
	var err error
	if len(args) > 0 {
		path = args[0]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
