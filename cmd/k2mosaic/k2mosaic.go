// k2mosaic stitches Kepler/K2 target pixel files into full-channel
// mosaic images, one per cadence, and can render the results into an
// animated movie.
package main

import(
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"

	"k2mosaic/pkg/mast"
	"k2mosaic/pkg/mosaic"
	"k2mosaic/pkg/pipeline"
	"k2mosaic/pkg/video"
	"k2mosaic/pkg/wcsref"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: k2mosaic <command> [flags] [args]

commands:
  tpflist     list target pixel file URLs for a campaign & CCD channel
  mosaic      mosaic a list of target pixel files, one FITS per cadence
  movie       render a list of mosaics into an animated gif / PNG frames
  wcs-export  harvest astrometric reference keywords from local FFIs
              (the built-in table only covers a few campaigns; run this
              to extend it to yours)
`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "tpflist":
		cmdTPFList(os.Args[2:])
	case "mosaic":
		cmdMosaic(os.Args[2:])
	case "movie":
		cmdMovie(os.Args[2:])
	case "wcs-export":
		cmdWCSExport(os.Args[2:])
	default:
		usage()
	}
}

func cmdTPFList(args []string) {
	fs := flag.NewFlagSet("tpflist", flag.ExitOnError)
	fSC := fs.Bool("sc", false, "short cadence files instead of long cadence")
	fWget := fs.Bool("wget", false, "output wget commands instead of bare URLs")
	fs.Parse(args)

	if fs.NArg() != 2 {
		log.Fatalf("usage: k2mosaic tpflist [-sc] [-wget] <campaign, e.g. C4 or Q4> <channel 1-84>")
	}
	channel, err := strconv.Atoi(fs.Arg(1))
	if err != nil || channel < 1 || channel > 84 {
		log.Fatalf("bad channel %q, want 1-84", fs.Arg(1))
	}

	req, err := mast.ParseRequest(fs.Arg(0), channel, *fSC)
	if err != nil {
		log.Fatal(err)
	}

	urls, err := mast.GetTPFURLs(req)
	if err != nil {
		log.Fatal(err)
	}
	for _, url := range urls {
		if *fWget {
			fmt.Println("wget -nH --cut-dirs=6 -c -N " + url)
		} else {
			fmt.Println(url)
		}
	}
}

func cmdMosaic(args []string) {
	fs := flag.NewFlagSet("mosaic", flag.ExitOnError)
	fCadence := fs.String("c", "all", "cadence selector: all, first, last, N, or N..M")
	fStep := fs.Int("s", 1, "only mosaic every Nth cadence")
	fWorkers := fs.Int("p", 0, "number of canvases to assemble in parallel (0 = #CPUs)")
	fConfig := fs.String("config", "", "YAML config file")
	fDataStore := fs.String("d", "", "local mirror of the archive's target_pixel_files tree")
	fBackground := fs.Bool("background", false, "add background flux back into each pixel")
	fVerbosity := fs.Int("v", 0, "how verbose to get")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatalf("usage: k2mosaic mosaic [flags] <filelist>")
	}

	cfg, err := pipeline.LoadConfig(*fConfig)
	if err != nil {
		log.Fatal(err)
	}
	if *fDataStore != "" {
		cfg.DataStore = *fDataStore
	}
	cfg.Workers = *fWorkers
	cfg.IncludeBackground = *fBackground
	cfg.Verbosity = *fVerbosity

	if cfg.Verbosity > 0 {
		log.Printf("Configuration:-\n\n%s\n", cfg.AsYaml())
	}

	filenames, err := readFileList(fs.Arg(0), cfg.DataStore)
	if err != nil {
		log.Fatal(err)
	}

	cutouts, err := pipeline.LoadCutouts(cfg, filenames)
	if err != nil {
		log.Fatal(err)
	}

	cadences, err := pipeline.ParseCadenceSpec(*fCadence, *fStep, cutouts[0])
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Mosaicking %d cadences from %d target pixel files (campaign %d, channel %d)",
		len(cadences), len(cutouts), cutouts[0].Campaign, cutouts[0].Channel)
	if err := pipeline.Run(cfg, cutouts, cadences); err != nil {
		log.Fatal(err)
	}
}

func cmdMovie(args []string) {
	fs := flag.NewFlagSet("movie", flag.ExitOnError)
	fOutput := fs.String("o", "k2mosaic-movie.gif", ".gif output filename")
	fRows := fs.String("rows", "", "row range row1..row2 (default: crop to data)")
	fCols := fs.String("cols", "", "column range col1..col2 (default: crop to data)")
	fCut := fs.String("cut", "", "explicit min..max cut levels (default: percentiles)")
	fFPS := fs.Float64("fps", 15, "frames per second")
	fCmap := fs.String("cmap", "gray", "colormap: "+video.ListColormaps())
	fScale := fs.Int("scale", 4, "output pixels per channel pixel")
	fFrames := fs.String("frames", "", "also write PNG frames into this directory")
	fVerbosity := fs.Int("v", 0, "how verbose to get")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatalf("usage: k2mosaic movie [flags] <filelist of mosaics>")
	}
	filenames, err := readFileList(fs.Arg(0), "")
	if err != nil {
		log.Fatal(err)
	}

	opts := video.NewRenderOptions()
	opts.Colormap = *fCmap
	opts.Scale = *fScale
	opts.Annotate = true
	opts.Verbosity = *fVerbosity

	if *fRows != "" || *fCols != "" {
		rows, cols := [2]int{0, mosaic.ChannelRows}, [2]int{0, mosaic.ChannelCols}
		if *fRows != "" && *fRows != "all" {
			if rows, err = parseRange(*fRows); err != nil {
				log.Fatal(err)
			}
		}
		if *fCols != "" && *fCols != "all" {
			if cols, err = parseRange(*fCols); err != nil {
				log.Fatal(err)
			}
		}
		opts.Crop = image.Rect(cols[0], rows[0], cols[1], rows[1])
	}
	if *fCut != "" {
		cut, err := parseFloatRange(*fCut)
		if err != nil {
			log.Fatal(err)
		}
		opts.CutMin, opts.CutMax, opts.CutSet = cut[0], cut[1], true
	}

	m := video.NewMovie(filenames, opts)
	m.FPS = *fFPS

	if *fFrames != "" {
		if err := m.WriteFrames(*fFrames); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("Writing %s", *fOutput)
	if err := m.WriteGIF(*fOutput); err != nil {
		log.Fatal(err)
	}
	log.Printf("Finished writing %s", *fOutput)
}

func cmdWCSExport(args []string) {
	fs := flag.NewFlagSet("wcs-export", flag.ExitOnError)
	fOutput := fs.String("o", "k2-ffi-headers.csv", "output csv filename")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatalf("usage: k2mosaic wcs-export [-o out.csv] <ffi directory>")
	}
	if err := wcsref.Export(fs.Arg(0), *fOutput); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s", *fOutput)
}

// readFileList loads one path-or-url per line, applying the local
// data-store substitution when one is configured.
func readFileList(filename, dataStore string) ([]string, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("filelist %s: %v", filename, err)
	}

	paths := []string{}
	sawGzip := false
	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = mast.LocalPath(line, dataStore)
		if strings.HasSuffix(line, ".gz") {
			sawGzip = true
		}
		paths = append(paths, line)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("filelist %s is empty", filename)
	}
	if sawGzip {
		log.Printf("Warning: some inputs are gzip-compressed; decompressing them first is much faster")
	}
	return paths, nil
}

func parseRange(s string) ([2]int, error) {
	parts := strings.SplitN(s, "..", 2)
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("bad range %q, want a..b", s)
	}
	lo, err1 := strconv.Atoi(parts[0])
	hi, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || lo > hi {
		return [2]int{}, fmt.Errorf("bad range %q, want a..b", s)
	}
	return [2]int{lo, hi}, nil
}

// parseFloatRange is parseRange for flux cut levels, which needn't be
// whole numbers.
func parseFloatRange(s string) ([2]float64, error) {
	parts := strings.SplitN(s, "..", 2)
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("bad range %q, want a..b", s)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || lo > hi {
		return [2]float64{}, fmt.Errorf("bad range %q, want a..b", s)
	}
	return [2]float64{lo, hi}, nil
}
