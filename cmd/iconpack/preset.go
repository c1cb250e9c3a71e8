package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"git.sr.ht/~jackmordaunt/iconpack"
)

var flagPresetFile string

var presetCmd = &cobra.Command{
	Use:   "preset <profile> <image>",
	Short: "Package an image as a platform icon set",
	Long:  "Convert an image at every size a platform profile calls for and package the results as a zip archive. Run without arguments to list profiles.",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		presets := iconpack.Presets()
		if flagPresetFile != "" {
			var err error
			presets, err = iconpack.LoadPresets(flagPresetFile)
			if err != nil {
				return err
			}
		}
		if len(args) < 2 {
			listPresets(presets)
			return nil
		}
		preset, ok := presets[args[0]]
		if !ok {
			return fmt.Errorf("unknown profile %q", args[0])
		}
		file, err := readInput(args[1])
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), iconpack.PackageTimeout)
		defer cancel()
		pipeline := iconpack.NewPipeline()
		pipeline.Log = debugLogger()
		packager := &iconpack.Packager{
			Pipeline: pipeline,
			Archiver: iconpack.ZipArchiver{},
			Log:      debugLogger(),
		}
		blob, err := packager.Package(ctx, file, preset)
		if err != nil {
			return err
		}
		return writeBlobs([]iconpack.Blob{blob})
	},
}

func init() {
	presetCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "output directory")
	presetCmd.Flags().StringVar(&flagPresetFile, "presets", "", "YAML file with custom profiles")
	presetCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log technical detail to stderr")
}

func listPresets(presets map[string]iconpack.Preset) {
	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		preset := presets[id]
		fmt.Printf("%-10s %s (%d sizes)\n", id, preset.Name, len(preset.Sizes))
	}
}
