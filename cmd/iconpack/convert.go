package main

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"git.sr.ht/~jackmordaunt/iconpack"
	"git.sr.ht/~jackmordaunt/iconpack/internal/util"
)

var (
	flagSizes   string
	flagOut     string
	flagVerbose bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <image>",
	Short: "Convert one image into a multi-resolution ICO file",
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
		ctx, cancel := context.WithTimeout(context.Background(), iconpack.SingleTimeout)
		defer cancel()
		pipeline := iconpack.NewPipeline()
		pipeline.Log = debugLogger()
		result, err := pipeline.Convert(ctx, iconpack.Request{
			File:   file,
			Sizes:  sizes,
			Target: iconpack.TargetICO,
		})
		if err != nil {
			return err
		}
		return writeBlobs(result.Blobs)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&flagSizes, "sizes", "s", "", "comma separated pixel sizes (default: standard vocabulary)")
	convertCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "output directory")
	convertCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log technical detail to stderr")
}

// readInput loads a file from disk into the in-memory shape the pipeline
// consumes, deriving the content type from the extension.
func readInput(path string) (iconpack.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return iconpack.File{}, fmt.Errorf("reading %q: %w", path, err)
	}
	return iconpack.File{
		Name: filepath.Base(path),
		MIME: mime.TypeByExtension(filepath.Ext(path)),
		Data: data,
	}, nil
}

func parseSizes(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return iconpack.StandardSizes, nil
	}
	var sizes []int
	for _, part := range strings.Split(raw, ",") {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", part)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func writeBlobs(blobs []iconpack.Blob) error {
	for _, blob := range blobs {
		dst := filepath.Join(flagOut, blob.Name)
		if err := util.WriteFile(dst, blob.Reader()); err != nil {
			return err
		}
		fmt.Println(dst)
	}
	return nil
}

func debugLogger() *log.Logger {
	if !flagVerbose {
		return nil
	}
	return log.New(os.Stderr, "iconpack: ", log.LstdFlags)
}

func today() time.Time {
	return time.Now()
}
