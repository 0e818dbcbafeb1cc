// Command meshbuf builds a demo cube, interleaves it and prints the
// resulting vertex record layout.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/meshbuf"
	"github.com/gogpu/meshbuf/config"
	"github.com/gogpu/meshbuf/layout"
	"github.com/gogpu/meshbuf/shader"
)

func main() {
	var (
		specPath = flag.String("spec", "", "interleave spec (.yaml, .yml or .toml); default packs every cube channel")
		wgsl     = flag.Bool("wgsl", false, "print the generated WGSL vertex stage")
		compile  = flag.Bool("compile", false, "compile the vertex stage to SPIR-V")
		output   = flag.String("output", "", "write the interleaved record bytes to this file")
		verbose  = flag.Bool("v", false, "debug logging")
		version  = flag.Bool("version", false, "print the version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("meshbuf", meshbuf.Version)
		return
	}

	if *verbose {
		meshbuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	spec := config.FromRequest("cube", defaultRequest())
	if *specPath != "" {
		s, err := config.Load(*specPath)
		if err != nil {
			log.Fatalf("Failed to load spec: %v", err)
		}
		spec = s
	}
	req, err := spec.Request()
	if err != nil {
		log.Fatalf("Invalid spec: %v", err)
	}

	g, err := buildCube(spec.Label)
	if err != nil {
		log.Fatalf("Failed to build cube: %v", err)
	}
	if err := g.InterleaveWith(req); err != nil {
		log.Fatalf("Failed to interleave: %v", err)
	}

	printLayout(g)

	if *wgsl {
		src, err := shader.Source(g.Layout())
		if err != nil {
			log.Fatalf("Failed to generate shader: %v", err)
		}
		fmt.Println()
		fmt.Print(src)
	}
	if *compile {
		spirv, err := shader.NewCompiler(0).Compile(g.Layout())
		if err != nil {
			log.Fatalf("Failed to compile shader: %v", err)
		}
		log.Printf("SPIR-V vertex stage: %d bytes\n", len(spirv))
	}
	if *output != "" {
		if err := os.WriteFile(*output, g.Record().Bytes(), 0o644); err != nil { //nolint:gosec // G306: output is a plain data file
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Record saved to %s (%d vertices, %d bytes each)\n",
			*output, g.MaxVertices(), g.Layout().ByteStride())
	}
}

func defaultRequest() layout.Request {
	return layout.Request{
		Features:      layout.AllFeatures &^ layout.VertexAttributes,
		ColorAlpha:    true,
		TexCoordSizes: []int{2},
	}
}

func printLayout(g *meshbuf.Geometry) {
	l := g.Layout()
	title := cases.Title(language.English)

	fmt.Printf("%s: %d vertices, %d indices (%s), stride %d floats / %d bytes\n\n",
		g.Label(), g.MaxVertices(), g.IndexCount(), g.IndexFormat(), l.Stride, l.ByteStride())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOCATION\tCHANNEL\tSIZE\tOFFSET\tBYTES\tFORMAT")
	for i, c := range l.Channels {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%v\n",
			i, title.String(c.Slot.String()), c.Size, c.Offset, c.ByteOffset(), c.Format())
	}
	_ = w.Flush()
}
