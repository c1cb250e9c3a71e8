package main

import (
	"context"

	"github.com/spf13/cobra"

	"git.sr.ht/~jackmordaunt/iconpack"
)

var flagSplit bool

var spriteCmd = &cobra.Command{
	Use:   "sprite <image>",
	Short: "Convert one image into a scalable sprite document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := readInput(args[0])
		if err != nil {
			return err
		}
		sizes, err := parseSizes(flagSizes)
		if err != nil {
			return err
		}
		target := iconpack.TargetSprite
		if flagSplit {
			target = iconpack.TargetSpriteSplit
		}
		ctx, cancel := context.WithTimeout(context.Background(), iconpack.SingleTimeout)
		defer cancel()
		pipeline := iconpack.NewPipeline()
		pipeline.Log = debugLogger()
		result, err := pipeline.Convert(ctx, iconpack.Request{
			File:   file,
			Sizes:  sizes,
			Target: target,
		})
		if err != nil {
			return err
		}
		return writeBlobs(result.Blobs)
	},
}

func init() {
	spriteCmd.Flags().StringVarP(&flagSizes, "sizes", "s", "", "comma separated pixel sizes (default: standard vocabulary)")
	spriteCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "output directory")
	spriteCmd.Flags().BoolVar(&flagSplit, "split", false, "emit one standalone document per size")
	spriteCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log technical detail to stderr")
}
