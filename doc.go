/*
Package pixconv is a multi-threaded 3x3 convolution engine for 24-bit RGB images,
with a set of composite filters (simple and canny-style edge detection) built on top of it.

The package also provides a command line interface which decodes a bitmap (or any other
supported image format), runs a chain of effects over it and encodes the result.
To check the supported commands type:

	$ pixconv --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/pixconv"
	)

	func main() {
		grid, err := pixconv.NewGrid(width, height)
		// fill the grid...

		engine := pixconv.NewEngine(pixconv.DefaultWorkers)
		edges, err := engine.CannyEdgeDetect(grid)
		if err != nil {
			fmt.Printf("Error detecting edges: %s", err.Error())
		}
	}
*/
package pixconv
