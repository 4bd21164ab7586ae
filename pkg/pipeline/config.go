package pipeline

import(
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config collects the knobs for a mosaic run. It round-trips through
// YAML so a run can be pinned down in a file and reproduced later.
type Config struct {
	Verbosity         int

	// Where to find target pixel files: a local mirror of the archive's
	// target_pixel_files tree. Empty means fetch-from-archive paths are
	// left untouched.
	DataStore         string

	OutputPrefix      string  // e.g. "k2mosaic-c"; campaign/channel/cadence get appended
	Workers           int     // canvases assembled in parallel; 0 = one per CPU

	IncludeBackground bool    // add background flux back in, errors in quadrature
	SkipBadPlacement  bool    // skip geometrically-invalid cutouts instead of failing the canvas

	// Rendering knobs for the movie subcommand.
	MinPercent        float64
	MaxPercent        float64
	Colormap          string
	Scale             int
	FPS               float64
	Annotate          bool
}

func NewConfig() Config {
	return Config{
		OutputPrefix:     "k2mosaic",
		SkipBadPlacement: true,
		MinPercent:       10.0,
		MaxPercent:       99.5,
		Colormap:         "gray",
		Scale:            4,
		FPS:              15.0,
		Annotate:         true,
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

// LoadConfig reads a YAML config file, falling back to defaults plus
// the $K2DATA convention for the data store.
func LoadConfig(filename string) (Config, error) {
	if filename == "" {
		c := NewConfig()
		c.applyEnv()
		return c, nil
	}
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	c, err := newConfigFromYaml(contents)
	if err != nil {
		return Config{}, err
	}
	c.applyEnv()
	return c, nil
}

func (c *Config)applyEnv() {
	if c.DataStore == "" && os.Getenv("K2DATA") != "" {
		c.DataStore = filepath.Join(os.Getenv("K2DATA"), "target_pixel_files")
	}
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}
