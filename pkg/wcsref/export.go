package wcsref

import(
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/astrogo/fitsio"
)

var ffiCampaignRe = regexp.MustCompile(`.*c([0-9]+)_.*`)

// Export harvests the astrometric keywords from every calibrated
// full-frame image under ffiStore (one extension per channel) and
// writes them as a csv reference table. Run this once per new campaign
// to refresh the embedded table.
func Export(ffiStore, outputFn string) error {
	filenames, err := filepath.Glob(filepath.Join(ffiStore, "*cal.fits"))
	if err != nil {
		return fmt.Errorf("wcsref export: %v", err)
	}
	if len(filenames) == 0 {
		return fmt.Errorf("wcsref export: no *cal.fits files under %s", ffiStore)
	}
	sort.Strings(filenames)

	out, err := os.Create(outputFn)
	if err != nil {
		return fmt.Errorf("wcsref export: %v", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := append([]string{"campaign", "filename", "extension"}, Keys...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, filename := range filenames {
		if err := exportFFI(w, filename); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func exportFFI(w *csv.Writer, filename string) error {
	base := filepath.Base(filename)
	m := ffiCampaignRe.FindStringSubmatch(base)
	if m == nil {
		return fmt.Errorf("wcsref export: can't find campaign number in %q", base)
	}
	campaign := m[1]

	raw, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("wcsref export %s: %v", base, err)
	}
	f, err := fitsio.Open(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("wcsref export %s: %v", base, err)
	}
	defer f.Close()

	// One image extension per channel, 1..84. Extensions missing the
	// keyword set (dead modules) are skipped, same as always.
	for ext := 1; ext < len(f.HDUs()) && ext <= 84; ext++ {
		hdr := f.HDU(ext).Header()
		rec := []string{campaign, base, fmt.Sprintf("%d", ext)}
		complete := true
		for _, key := range Keys {
			card := hdr.Get(key)
			if card == nil || card.Value == nil {
				complete = false
				break
			}
			rec = append(rec, fmt.Sprintf("%v", card.Value))
		}
		if !complete {
			continue
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
