// iconpack converts raster and vector images into multi-resolution icon
// containers: ICO files, scalable sprite documents and platform preset
// packages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iconpack",
	Short: "iconpack - convert images into multi-resolution icons",
	Long:  "iconpack converts raster and vector images into ICO containers, scalable sprite documents and platform icon packages.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(spriteCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(presetCmd)
}
