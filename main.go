package main

import (
	"os"

	"github.com/df07/go-bvh-raytracer/cmd"
	"github.com/df07/go-bvh-raytracer/pkg/log"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "bvh-raytracer"
	app.Usage = "render scenes with a BVH-accelerated path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene or a JSON scene description. Flags override the
scene's camera and sampling settings. The image is written as PNG or PPM
depending on the --out extension, or as PPM on stdout with --out -.`,
			ArgsUsage: "[scene]",
			Flags:     cmd.RenderFlags,
			Action:    cmd.RenderFrame,
		},
		{
			Name:  "scenes",
			Usage: "list built-in scenes and scene files",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scenes-dir",
					Value: scene.DefaultScenesDir,
					Usage: "directory scanned for .json scene files",
				},
			},
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.New("raytracer").Error(err)
		os.Exit(1)
	}
}
