// Command meshdemo loads a YAML mesh description, builds it into a GL mesh
// and draws it a number of times.
//
//	meshdemo -mesh testdata/quad.yaml -driver record
//	meshdemo -mesh testdata/triangle.yaml -driver egl -frames 60 -v
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/glmesh"
	"github.com/gogpu/glmesh/internal/gltest"
	"github.com/gogpu/glmesh/internal/meshfile"
)

func init() {
	// GL contexts are bound to the OS thread that made them current.
	runtime.LockOSThread()
}

func main() {
	var (
		meshPath = flag.String("mesh", "testdata/triangle.yaml", "mesh description (YAML)")
		frames   = flag.Int("frames", 1, "number of draws")
		driver   = flag.String("driver", "record", "GL driver: egl or record")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	glmesh.SetLogger(logger)

	if err := run(logger, *meshPath, *driver, *frames); err != nil {
		log.Fatalf("meshdemo: %v", err)
	}
}

func run(logger *slog.Logger, meshPath, driverName string, frames int) error {
	f, err := meshfile.Load(meshPath)
	if err != nil {
		return err
	}

	d, closeDriver, err := openDriver(driverName)
	if err != nil {
		return err
	}
	defer closeDriver()

	built, err := f.Build(d)
	if err != nil {
		return err
	}
	defer built.Release()

	logger.Info("mesh built",
		"path", meshPath,
		"topology", f.Topology,
		"attributes", len(f.Attributes),
		"indexed", built.Index != nil,
		"vao", built.Mesh.Handle(),
	)
	for i, l := range built.Mesh.Layouts() {
		logger.Debug("vertex layout", "slot", i, "name", f.Attributes[i].Name, "format", l.Attributes[0].Format, "stride", l.ArrayStride)
	}

	for i := range frames {
		if err := built.Mesh.Draw(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	logger.Info("drawn", "frames", frames)

	if rec, ok := d.(*gltest.Driver); ok {
		for _, c := range rec.Calls() {
			fmt.Println(c)
		}
	}
	return nil
}

// openDriver returns the named driver and a func that tears it down.
func openDriver(name string) (glmesh.Driver, func(), error) {
	switch name {
	case "record":
		return gltest.NewDriver(), func() {}, nil
	case "egl":
		return openEGL()
	default:
		return nil, nil, fmt.Errorf("unknown driver %q (want egl or record)", name)
	}
}
