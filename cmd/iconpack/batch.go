package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"git.sr.ht/~jackmordaunt/iconpack"
	"git.sr.ht/~jackmordaunt/iconpack/internal/util"
)

var (
	flagConcurrency int
	flagTarget      string
	flagZip         bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <path>...",
	Short: "Convert many images with bounded concurrency",
	Long:  "Convert every given image, or every image under a given directory, into the selected output. Failures are isolated per file.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := collectInputs(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no image files found")
		}
		sizes, err := parseSizes(flagSizes)
		if err != nil {
			return err
		}
		target, err := parseTarget(flagTarget)
		if err != nil {
			return err
		}
		items := make([]*iconpack.Item, 0, len(paths))
		for _, path := range paths {
			file, err := readInput(path)
			if err != nil {
				return err
			}
			items = append(items, iconpack.NewItem(file, sizes, target))
		}
		pipeline := iconpack.NewPipeline()
		pipeline.Log = debugLogger()
		scheduler := &iconpack.Scheduler{
			Converter:   pipeline,
			Concurrency: flagConcurrency,
			Timeout:     iconpack.BatchTimeout,
			Log:         debugLogger(),
			OnOverall: func(percent int) {
				fmt.Fprintf(os.Stderr, "\rprogress: %d%%", percent)
			},
		}
		runErr := scheduler.Run(context.Background(), items)
		fmt.Fprintln(os.Stderr)

		if flagZip {
			var results []*iconpack.Result
			for _, item := range items {
				results = append(results, item.Result)
			}
			blob, err := iconpack.PackageResults(iconpack.ZipArchiver{}, results, target.String(), today())
			if err != nil {
				return err
			}
			if err := writeBlobs([]iconpack.Blob{blob}); err != nil {
				return err
			}
		} else {
			for _, item := range items {
				if item.Result == nil {
					continue
				}
				if err := writeBlobs(item.Result.Blobs); err != nil {
					return err
				}
			}
		}
		for _, item := range items {
			if item.Err != nil {
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", item.File.Name, item.Err)
			}
		}
		if runErr != nil {
			return fmt.Errorf("%d of %d files failed", countFailed(items), len(items))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&flagSizes, "sizes", "s", "", "comma separated pixel sizes (default: standard vocabulary)")
	batchCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "output directory")
	batchCmd.Flags().StringVarP(&flagTarget, "target", "t", "ico", "output target: ico, sprite or sprite-split")
	batchCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", iconpack.DefaultConcurrency, "maximum files converted at once")
	batchCmd.Flags().BoolVar(&flagZip, "zip", false, "package all outputs into one archive")
	batchCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log technical detail to stderr")
}

// collectInputs expands directories into their contained image files.
func collectInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := util.Finder{
			Root:       arg,
			Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".svg", ".ico"},
			Recursive:  true,
		}.Find()
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func parseTarget(raw string) (iconpack.Target, error) {
	switch raw {
	case "ico":
		return iconpack.TargetICO, nil
	case "sprite":
		return iconpack.TargetSprite, nil
	case "sprite-split":
		return iconpack.TargetSpriteSplit, nil
	}
	return 0, fmt.Errorf("unknown target %q: want ico, sprite or sprite-split", raw)
}

func countFailed(items []*iconpack.Item) int {
	var failed int
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	return failed
}
