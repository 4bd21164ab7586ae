package mast

import(
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		in           string
		wantMission  string
		wantCampaign int
		wantErr      bool
	}{
		{"C4", "k2", 4, false},
		{"c17", "k2", 17, false},
		{"Q4", "kepler", 4, false},
		{"q16", "kepler", 16, false},
		{"4", "k2", 4, false},
		{"", "", 0, true},
		{"Cfour", "", 0, true},
	}
	for _, test := range tests {
		req, err := ParseRequest(test.in, 31, false)
		if test.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
		} else if req.Mission != test.wantMission || req.Campaign != test.wantCampaign {
			t.Errorf("%q: got %s/%d, want %s/%d",
				test.in, req.Mission, req.Campaign, test.wantMission, test.wantCampaign)
		}
	}
}

func TestSearchURL(t *testing.T) {
	k2 := Request{Mission: "k2", Campaign: 4, Channel: 31}
	url := k2.SearchURL()
	for _, want := range []string{"k2/data_search", "sci_campaign=4", "sci_channel=31", "ktc_target_type=LC"} {
		if !strings.Contains(url, want) {
			t.Errorf("k2 url missing %q: %s", want, url)
		}
	}

	kepler := Request{Mission: "kepler", Campaign: 16, ShortCadence: true}
	url = kepler.SearchURL()
	for _, want := range []string{"kepler/data_search", "sci_data_quarter=16", "ktc_target_type=SC"} {
		if !strings.Contains(url, want) {
			t.Errorf("kepler url missing %q: %s", want, url)
		}
	}
	if strings.Contains(url, "sci_channel") {
		t.Errorf("channel 0 should not constrain the search: %s", url)
	}
}

func TestTPFURL(t *testing.T) {
	tests := []struct {
		name         string
		shortCadence bool
		want         string
		wantErr      bool
	}{
		{
			"KTWO210854069-C04", false,
			ArchiveURL + "/missions/k2/target_pixel_files/c4/210800000/54000/ktwo210854069-c04_lpd-targ.fits.gz",
			false,
		},
		{
			"KTWO210854069-C04", true,
			ArchiveURL + "/missions/k2/target_pixel_files/c4/210800000/54000/ktwo210854069-c04_spd-targ.fits.gz",
			false,
		},
		{
			"KPLR004912785-2010078095331", false,
			ArchiveURL + "/missions/kepler/target_pixel_files/0049/004912785/kplr004912785-2010078095331_lpd-targ.fits.gz",
			false,
		},
		{"JUNK123", false, "", true},
		{"KTWO21085", false, "", true},
	}
	for _, test := range tests {
		got, err := TPFURL(test.name, test.shortCadence)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
		} else if got != test.want {
			t.Errorf("%s:\n got %s\nwant %s", test.name, got, test.want)
		}
	}
}

func TestLocalPath(t *testing.T) {
	url := ArchiveURL + "/missions/k2/target_pixel_files/c4/210800000/54000/ktwo210854069-c04_lpd-targ.fits.gz"

	got := LocalPath(url, "/data/k2")
	want := "/data/k2/c4/210800000/54000/ktwo210854069-c04_lpd-targ.fits.gz"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	if got := LocalPath(url, ""); got != url {
		t.Errorf("empty data store should leave the url alone")
	}
	if got := LocalPath("/already/local.fits", "/data/k2"); got != "/already/local.fits" {
		t.Errorf("local paths should pass through untouched")
	}
}
