package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/esimov/pixconv"
	"github.com/esimov/pixconv/utils"
)

const HelpBanner = `
┌─┐┬─┐ ┬┌─┐┌─┐┌┐┌┬  ┬
├─┘│┌┴┬┘│  │ ││││└┐┌┘
┴  ┴┴ └─└─┘└─┘┘└┘ └┘

Multi-threaded 3x3 convolution filters.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	effects     = flag.String("effects", "canny", "Comma separated list of effects to apply")
	bands       = flag.Int("workers", pixconv.DefaultWorkers, "Number of row bands every convolution is split into")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	noWrite     = flag.Bool("nowrite", false, "Apply the effects without writing the output")
	verbose     = flag.Bool("v", false, "Verbose logging")
	list        = flag.Bool("list", false, "List the supported effects")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(pixconv.Effects(), "\n"))
		return
	}

	if *verbose {
		pixconv.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	proc := &pixconv.Processor{
		Effects: parseEffects(*effects),
		Workers: *bands,
		NoWrite: *noWrite,
	}
	if _, err := proc.Pipeline(); err != nil {
		log.Fatalf(
			utils.DecorateText("Invalid effects: %v\n", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ PIXCONV", utils.StatusMessage),
		utils.DecorateText("is filtering the image...", utils.DefaultMessage))

	op := &pixconv.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
		Spinner:  utils.NewSpinner(spinnerText, time.Millisecond*200, true),
	}

	if err := proc.Execute(op); err != nil {
		log.Fatalf(
			utils.DecorateText("\nError filtering the image: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
	}
}

// parseEffects splits the comma separated effect list, dropping the empty entries.
func parseEffects(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, strings.ToLower(name))
		}
	}
	return names
}
