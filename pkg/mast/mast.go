// Package mast queries the Kepler/K2 archive at MAST for target pixel
// files. The mosaic core never talks to it directly; callers use it to
// figure out which files to feed in.
package mast

import(
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const ArchiveURL = "https://archive.stsci.edu"

// ErrNoDataFound means the archive search came back empty for the
// requested campaign/channel.
var ErrNoDataFound = errors.New("mast: no data found for these parameters")

// A Request identifies one archive search: a K2 campaign ("C4") or
// Kepler quarter ("Q4"), optionally narrowed to one CCD channel.
type Request struct {
	Mission      string // "k2" or "kepler"
	Campaign     int    // campaign or quarter number
	Channel      int    // 0 = all channels
	ShortCadence bool
}

// ParseRequest accepts "C4", "Q4" or a bare number (assumed K2).
func ParseRequest(quarterOrCampaign string, channel int, shortCadence bool) (Request, error) {
	req := Request{Mission: "k2", Channel: channel, ShortCadence: shortCadence}
	s := strings.ToLower(strings.TrimSpace(quarterOrCampaign))
	if s == "" {
		return req, errors.New("mast: empty campaign/quarter")
	}

	switch s[0] {
	case 'c':
		s = s[1:]
	case 'q':
		req.Mission = "kepler"
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return req, errors.Wrapf(err, "mast: bad campaign/quarter %q", quarterOrCampaign)
	}
	req.Campaign = n
	return req, nil
}

func (req Request)obsmode() string {
	if req.ShortCadence {
		return "SC"
	}
	return "LC"
}

// SearchURL builds the MAST data-search query for the request.
func (req Request)SearchURL() string {
	url := fmt.Sprintf("%s/%s/data_search/search.php?", ArchiveURL, req.Mission)
	url += "action=Search"
	url += "&max_records=123456789"
	url += "&selectedColumnsCsv=sci_data_set_name"
	url += "&outputformat=JSON"
	url += fmt.Sprintf("&ktc_target_type=%s", req.obsmode())
	if req.Mission == "k2" {
		url += fmt.Sprintf("&sci_campaign=%d", req.Campaign)
	} else {
		url += fmt.Sprintf("&sci_data_quarter=%d", req.Campaign)
	}
	if req.Channel > 0 {
		url += fmt.Sprintf("&sci_channel=%d", req.Channel)
	}
	return url
}

// GetTPFURLs runs the archive search and returns the download URL of
// every matching target pixel file.
func GetTPFURLs(req Request) ([]string, error) {
	resp, err := http.Get(req.SearchURL())
	if err != nil {
		return nil, errors.Wrap(err, "mast: data_search")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("mast: GET data_search: %s", resp.Status)
	}

	// MAST returns a bare JSON array; an empty result set comes back as
	// a non-JSON apology instead, which we map to ErrNoDataFound.
	var entries []struct {
		DatasetName string `json:"Dataset Name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, ErrNoDataFound
	}
	if len(entries) == 0 {
		return nil, ErrNoDataFound
	}

	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		u, err := TPFURL(e.DatasetName, req.ShortCadence)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// TPFURL maps an archive data set name (e.g. "KTWO210854069-C04" or
// "KPLR004912785-2010078095331") to its target pixel file URL.
func TPFURL(dataSetName string, shortCadence bool) (string, error) {
	name := strings.ToLower(strings.TrimSpace(dataSetName))
	suffix := "_lpd-targ.fits.gz"
	if shortCadence {
		suffix = "_spd-targ.fits.gz"
	}

	switch {
	case strings.HasPrefix(name, "kplr"):
		if len(name) < 13 {
			return "", errors.Errorf("mast: bad kepler data set name %q", dataSetName)
		}
		return fmt.Sprintf("%s/missions/kepler/target_pixel_files/%s/%s/%s%s",
			ArchiveURL, name[4:8], name[4:13], name, suffix), nil

	case strings.HasPrefix(name, "ktwo"):
		parts := strings.Split(name, "-c")
		if len(parts) != 2 || len(name) < 10 {
			return "", errors.Errorf("mast: bad k2 data set name %q", dataSetName)
		}
		campaign, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", errors.Wrapf(err, "mast: bad k2 data set name %q", dataSetName)
		}
		return fmt.Sprintf("%s/missions/k2/target_pixel_files/c%d/%s00000/%s000/%s%s",
			ArchiveURL, campaign, name[4:8], name[8:10], name, suffix), nil
	}

	return "", errors.Errorf("mast: unrecognized data set name %q", dataSetName)
}

// Download fetches one target pixel file from the archive. The whole
// body is read before returning, so the caller either gets a complete
// file or an error, never a partial read.
func Download(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "mast: GET %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("mast: GET %s: %s", url, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "mast: GET %s", url)
	}
	return raw, nil
}

// LocalPath rewrites an archive URL into a path under a local mirror of
// the target_pixel_files tree, when one is configured.
func LocalPath(url, dataStore string) string {
	if dataStore == "" {
		return url
	}
	for _, mission := range []string{"k2", "kepler"} {
		prefix := fmt.Sprintf("%s/missions/%s/target_pixel_files", ArchiveURL, mission)
		if strings.HasPrefix(url, prefix) {
			return dataStore + strings.TrimPrefix(url, prefix)
		}
	}
	return url
}
