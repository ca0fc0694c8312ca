// Package main is the entry point for the exifcore CLI tool.
//
// exifcore is a command-line utility for reading and writing the
// metadata embedded in JPEG, bare TIFF, and Canon CIFF (.crw) files.
package main

import "github.com/ma-tf/exifcore/cmd"

func main() {
	cmd.Execute()
}
