package cmd

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/imageio"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// RenderFlags are the flags accepted by the render command
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "final",
		Usage: "built-in scene name, scene file name or path to a .json scene",
	},
	cli.StringFlag{
		Name:  "scenes-dir",
		Value: scene.DefaultScenesDir,
		Usage: "directory searched for scene files by name",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "image width (overrides the scene)",
	},
	cli.Float64Flag{
		Name:  "aspect",
		Usage: "aspect ratio width/height (overrides the scene)",
	},
	cli.IntFlag{
		Name:  "spp",
		Usage: "samples per pixel (overrides the scene)",
	},
	cli.IntFlag{
		Name:  "depth",
		Usage: "max bounce depth (overrides the scene)",
	},
	cli.BoolFlag{
		Name:  "single-threaded",
		Usage: "render on the calling goroutine only",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "worker count; 0 uses the logical CPU count",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: renderer.DefaultOptions().Seed,
		Usage: "seed for scene generation and sampling",
	},
	cli.BoolFlag{
		Name:  "no-bvh",
		Usage: "intersect against a flat list instead of the BVH",
	},
	cli.IntFlag{
		Name:  "progress",
		Value: renderer.DefaultOptions().ProgressEvery,
		Usage: "log progress every N scanlines; 0 disables it",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "output file (.png or .ppm), - for PPM on stdout; default output/<scene>/render_<timestamp>.png",
	},
}

// renderSettings holds everything the render command needs once flags are parsed
type renderSettings struct {
	Scene     string
	ScenesDir string
	Out       string

	Width           *int
	AspectRatio     *float64
	SamplesPerPixel *int
	MaxDepth        *int

	Options renderer.Options
	UseBVH  bool
}

func settingsFromContext(ctx *cli.Context) renderSettings {
	settings := renderSettings{
		Scene:     ctx.String("scene"),
		ScenesDir: ctx.String("scenes-dir"),
		Out:       ctx.String("out"),
		Options: renderer.Options{
			Multithreaded: !ctx.Bool("single-threaded"),
			Workers:       ctx.Int("workers"),
			Seed:          ctx.Int64("seed"),
			ProgressEvery: ctx.Int("progress"),
		},
		UseBVH: !ctx.Bool("no-bvh"),
	}
	if ctx.NArg() > 0 {
		settings.Scene = ctx.Args().First()
	}

	if ctx.IsSet("width") {
		v := ctx.Int("width")
		settings.Width = &v
	}
	if ctx.IsSet("aspect") {
		v := ctx.Float64("aspect")
		settings.AspectRatio = &v
	}
	if ctx.IsSet("spp") {
		v := ctx.Int("spp")
		settings.SamplesPerPixel = &v
	}
	if ctx.IsSet("depth") {
		v := ctx.Int("depth")
		settings.MaxDepth = &v
	}
	return settings
}

// applyOverrides replaces scene configuration with the values given on the command line
func (s renderSettings) applyOverrides(sc *scene.Scene) {
	if s.Width != nil {
		sc.CameraConfig.Width = *s.Width
	}
	if s.AspectRatio != nil {
		sc.CameraConfig.AspectRatio = *s.AspectRatio
	}
	if s.SamplesPerPixel != nil {
		sc.SamplingConfig.SamplesPerPixel = *s.SamplesPerPixel
	}
	if s.MaxDepth != nil {
		sc.SamplingConfig.MaxDepth = *s.MaxDepth
	}
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}

// RenderFrame renders a single frame of a scene and writes it to disk or stdout
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)
	return render(settingsFromContext(ctx), ctx.App.Writer)
}

func render(settings renderSettings, stdout io.Writer) error {
	sc, err := scene.Resolve(settings.Scene, settings.ScenesDir, settings.Options.Seed)
	if err != nil {
		return err
	}
	settings.applyOverrides(sc)

	host := renderer.DetectHost()
	logger.Infof("host: %d logical / %d physical CPUs, %d MiB free of %d MiB",
		host.LogicalCPUs, host.PhysicalCPUs, host.FreeMemory>>20, host.TotalMemory>>20)

	summary := sc.Summarize()
	logger.Noticef("scene %q: %d primitives (%d spheres, %d triangles)",
		sc.Name, summary.Primitives, summary.Spheres, summary.Triangles)

	start := time.Now()
	world := sc.World(settings.UseBVH)
	if bvh, ok := world.(*geometry.BVH); ok {
		logger.Noticef("built BVH in %s", time.Since(start))
		displayBVHStats(bvh.Stats())
	} else {
		logger.Noticef("using flat list of %d primitives", summary.Primitives)
	}

	camera := renderer.NewCamera(sc.CameraConfig)
	r := renderer.NewRenderer(camera, world, sc.Background, sc.SamplingConfig, settings.Options, logger)

	logger.Noticef("rendering %dx%d at %d spp, depth %d",
		camera.Width(), camera.Height(), sc.SamplingConfig.Normalize().SamplesPerPixel, sc.SamplingConfig.Normalize().MaxDepth)
	framebuffer, stats := r.Render()
	displayFrameStats(stats)

	switch out := settings.Out; out {
	case "-":
		return imageio.WritePPM(stdout, framebuffer)
	case "":
		settings.Out = defaultOutputPath(sc.Name, time.Now())
	}

	if err := imageio.SaveFile(settings.Out, framebuffer); err != nil {
		return err
	}
	logger.Noticef("render saved as %s", settings.Out)
	return nil
}

func frameStatsTable(stats renderer.RenderStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Start row", "Rows", "% of frame", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Worker),
			fmt.Sprintf("%d", stat.StartRow),
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%02.1f %%", 100*stat.Share),
			stat.Elapsed.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", stats.Elapsed.String()})
	table.Render()
	return buf.String()
}

func displayFrameStats(stats renderer.RenderStats) {
	logger.Noticef("frame statistics (%.0f samples/s)\n%s", stats.SamplesPerSecond(), frameStatsTable(stats))
}

func bvhStatsTable(stats geometry.BVHStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Primitives", "Nodes", "Leaves", "Max depth", "Avg leaf depth"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Primitives),
		fmt.Sprintf("%d", stats.TotalNodes),
		fmt.Sprintf("%d", stats.LeafNodes),
		fmt.Sprintf("%d", stats.MaxDepth),
		fmt.Sprintf("%.2f", stats.AvgLeafDepth),
	})
	table.Render()
	return buf.String()
}

func displayBVHStats(stats geometry.BVHStats) {
	logger.Infof("BVH statistics\n%s", bvhStatsTable(stats))
}
