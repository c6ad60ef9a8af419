package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// ListScenes prints the built-in scenes and the scene files found in --scenes-dir
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	scenes, err := scene.ListScenes(ctx.String("scenes-dir"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Name", "Title", "Group", "Description"})
	for _, info := range scenes {
		table.Append([]string{info.ID, info.DisplayName, info.Group, info.Description})
	}
	table.Render()
	return nil
}
