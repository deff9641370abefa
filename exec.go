package pixconv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/pixconv/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently processed files.
const maxWorkers = 20

// errSameFile is returned when the destination would overwrite the source.
var errSameFile = errors.New("the destination is the same as the source")

// validExtensions are the supported source file types.
var validExtensions = []string{".bmp", ".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff"}

// Ops holds the execution options of the command line application.
type Ops struct {
	Src, Dst, PipeName string
	// Workers is the number of files processed concurrently when Src is a directory.
	Workers int
	Spinner *utils.Spinner
}

// result holds the relevant information about the filtering process of a single file.
type result struct {
	path    string
	timings Timings
	err     error
}

// Execute processes the source, which can be a single file, a pipe, an URL or a directory.
// Directories are walked recursively and their images are processed concurrently.
func (p *Processor) Execute(op *Ops) error {
	var (
		fs  os.FileInfo
		err error
	)
	src := op.Src

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if f != nil {
			defer os.Remove(f.Name())
			defer f.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		src = f.Name()
	}

	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		if !p.NoWrite && sameFile(src, op.Dst) {
			return fmt.Errorf("%w: %s", errSameFile, op.Dst)
		}
		if !p.NoWrite {
			if _, err := os.Stat(op.Dst); err != nil {
				if err := os.MkdirAll(op.Dst, 0755); err != nil {
					return fmt.Errorf("unable to create the destination directory: %w", err)
				}
			}
		}
		// The spinner is not shared between the concurrent consumers.
		dirOp := *op
		dirOp.Spinner = nil
		err = dirOp.processDir(p, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeCharDevice != 0:
		ext := strings.ToLower(filepath.Ext(op.Dst))
		if !p.NoWrite && op.Dst != op.PipeName && !utils.Contains(validExtensions, ext) {
			return fmt.Errorf("%v file type not supported", ext)
		}
		p.Timings, err = op.process(p, src, op.Dst)
		op.printOpStatus(os.Stderr, op.Dst, p.Timings, p.NoWrite, err)
	default:
		return fmt.Errorf("unsupported source: %s", src)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	return nil
}

// processDir walks the source directory and filters the images with op.Workers concurrent consumers.
func (op *Ops) processDir(p *Processor, srcDir string) error {
	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan interface{})
	defer close(done)

	paths, errc := walkDir(done, srcDir, validExtensions)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			op.consumer(p, ch, done, paths)
			return nil
		})
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		g.Wait()
	}()

	var firstErr error
	for res := range ch {
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		op.printOpStatus(os.Stderr, res.path, res.timings, p.NoWrite, res.err)
	}

	if err := <-errc; err != nil {
		return err
	}
	return firstErr
}

// consumer reads the path names from the paths channel and calls the processor against the source image.
// Every file is processed with its own copy of the processor.
func (op *Ops) consumer(
	p *Processor,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		dst := filepath.Join(op.Dst, filepath.Base(src))
		proc := *p
		timings, err := op.process(&proc, src, dst)

		select {
		case <-done:
			return
		case res <- result{
			path:    src,
			timings: timings,
			err:     err,
		}:
		}
	}
}

// process calls the processor over the source image and returns the error in case exists.
func (op *Ops) process(p *Processor, in, out string) (Timings, error) {
	src, dst, err := op.pathToFile(in, out, p.NoWrite)
	if err != nil {
		return Timings{}, err
	}

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			if err := f.Close(); err != nil {
				Logger().Warn("could not close the source file", "error", err)
			}
		}
	}()

	// Capture CTRL-C signal, restore back the cursor visibility and remove the partially written file.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-signalChan:
			if op.Spinner != nil {
				op.Spinner.RestoreCursor()
			}
			removeOutput(dst)
			os.Exit(1)
		case <-stop:
		}
	}()

	if op.Spinner != nil {
		op.Spinner.Start()
	}
	err = p.Process(src, dst)

	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		// remove the generated image file in case of an error
		removeOutput(dst)
	}

	if op.Spinner != nil {
		if err != nil {
			op.Spinner.StopMsg = utils.DecorateText("filtering the image failed ✘\n", utils.ErrorMessage)
		} else {
			op.Spinner.StopMsg = utils.DecorateText("the image has been filtered successfully ✔\n", utils.SuccessMessage)
		}
		op.Spinner.Stop()
	}
	return p.Timings, err
}

// removeOutput deletes the destination file, unless it is the standard output.
func removeOutput(dst io.Writer) {
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		os.Remove(f.Name())
	}
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string, noWrite bool) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}
	if noWrite {
		return src, nil, nil
	}

	closeSrc := func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			f.Close()
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeSrc()
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		// Truncating the destination would wipe out the source before it is decoded.
		if in != op.PipeName && sameFile(in, out) {
			closeSrc()
			return nil, nil, fmt.Errorf("%w: %s", errSameFile, out)
		}
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			closeSrc()
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// sameFile reports whether both paths exist and point to the same file.
func sameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

// printOpStatus displays the relevant information about the filtering process.
// Nothing about the output is reported when the result has not been written.
func (op *Ops) printOpStatus(w io.Writer, fname string, t Timings, noWrite bool, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s %s\n",
			utils.DecorateText("Error filtering the image:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("%s\n\tReason: %v", fname, err), utils.DefaultMessage),
		)
		return
	}
	fmt.Fprintf(w, "\nTime to read file: \t%s\nTime for processing: \t%s\n",
		utils.FormatTime(t.Decode), utils.FormatTime(t.Process))
	if noWrite {
		return
	}
	fmt.Fprintf(w, "Time to write file: \t%s\n", utils.FormatTime(t.Encode))

	if fname != op.PipeName {
		fmt.Fprintf(w, "The image has been saved as: %s\n\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}

			if utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}
