package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Input is a tabular source file.
type Input struct {
	Path  string `yaml:"path" validate:"required"`
	Sheet string `yaml:"sheet"`
	// Name labels the source in logs and metrics.
	Name string `yaml:"name" validate:"required"`
}

type Elbow struct {
	MaxK int `yaml:"max_k" split_words:"true" validate:"min=1"`
}

// Bounds are the fixed axis ranges of the indicator domain.
type Bounds struct {
	YearMin  float64 `yaml:"year_min" split_words:"true"`
	YearMax  float64 `yaml:"year_max" split_words:"true" validate:"gtfield=YearMin"`
	ValueMin float64 `yaml:"value_min" split_words:"true"`
	ValueMax float64 `yaml:"value_max" split_words:"true" validate:"gtfield=ValueMin"`
}

// Output is where the charts go. Workbook and JSON exports are opt-in.
type Output struct {
	Dir      string `yaml:"dir" validate:"required"`
	Workbook bool   `yaml:"workbook"`
	JSON     bool   `yaml:"json"`
}

type Logging struct {
	Level   string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Console bool   `yaml:"console"`
}

// Setup applies the logging config to the global logger.
func (l Logging) Setup() {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if l.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Cluster is the config of a clustering run over one indicator.
type Cluster struct {
	Title         string   `yaml:"title" validate:"required"`
	Input         Input    `yaml:"input"`
	Features      []string `yaml:"features" validate:"len=2,dive,required"`
	Clusters      int      `yaml:"clusters" validate:"min=1"`
	Seed          int64    `yaml:"seed"`
	Inits         int      `yaml:"inits" validate:"min=10"`
	MaxIterations int      `yaml:"max_iterations" split_words:"true" validate:"min=1"`
	Tolerance     float64  `yaml:"tolerance" validate:"gt=0"`
	Elbow         Elbow    `yaml:"elbow"`
	Bounds        Bounds   `yaml:"bounds"`
	Output        Output   `yaml:"output"`
	Logging       Logging  `yaml:"logging"`
}

func (c *Cluster) EnvPrefix() string {
	return "CLUSTER"
}

// DefaultCluster is the internet access clustering run.
func DefaultCluster() Cluster {
	return Cluster{
		Title: "Internet access",
		Input: Input{
			Path: "data/internet.csv",
			Name: "internet",
		},
		Features:      []string{"Year", "Percentage"},
		Clusters:      3,
		Seed:          42,
		Inits:         10,
		MaxIterations: 300,
		Tolerance:     1e-4,
		Elbow:         Elbow{MaxK: 7},
		Bounds: Bounds{
			YearMin:  2014,
			YearMax:  2025,
			ValueMin: 0,
			ValueMax: 100,
		},
		Output: Output{
			Dir:      "output",
			Workbook: false,
			JSON:     false,
		},
		Logging: Logging{
			Level:   "info",
			Console: true,
		},
	}
}

// Investment is the wide table with one column per year.
type Investment struct {
	Path  string `yaml:"path" validate:"required"`
	Sheet string `yaml:"sheet"`
	Name  string `yaml:"name" validate:"required"`
	// Key is the entity column of the wide table.
	Key string `yaml:"key" validate:"required"`
	// Rename is the name of the key column after reshaping.
	Rename string `yaml:"rename"`
	Value  string `yaml:"value" validate:"required"`
}

type Suffixes struct {
	Internet string `yaml:"internet" validate:"required"`
	Computer string `yaml:"computer" validate:"required,nefield=Internet"`
}

type Reshape struct {
	Warn bool `yaml:"warn"`
}

// Compare is the config of the indicator comparison run.
type Compare struct {
	Title      string     `yaml:"title" validate:"required"`
	Internet   Input      `yaml:"internet"`
	Computer   Input      `yaml:"computer"`
	Investment Investment `yaml:"investment"`
	// Column is the value column of the access tables.
	Column string `yaml:"column" validate:"required"`
	// Country filters the series to one country, the mean over all countries if empty.
	Country  string   `yaml:"country"`
	Suffixes Suffixes `yaml:"suffixes"`
	Reshape  Reshape  `yaml:"reshape"`
	Bounds   Bounds   `yaml:"bounds"`
	Output   Output   `yaml:"output"`
	Logging  Logging  `yaml:"logging"`
}

func (c *Compare) EnvPrefix() string {
	return "COMPARE"
}

// DefaultCompare compares internet and computer access with the education investment.
func DefaultCompare() Compare {
	return Compare{
		Title: "Access and education investment",
		Internet: Input{
			Path: "data/internet.csv",
			Name: "internet",
		},
		Computer: Input{
			Path: "data/computer.csv",
			Name: "computer",
		},
		Investment: Investment{
			Path:   "data/investment.csv",
			Name:   "investment",
			Key:    "CountryCode",
			Rename: "Country",
			Value:  "Investment_Percentage",
		},
		Column: "Percentage",
		Suffixes: Suffixes{
			Internet: "_internet",
			Computer: "_computer",
		},
		Reshape: Reshape{Warn: true},
		Bounds: Bounds{
			YearMin:  2014,
			YearMax:  2025,
			ValueMin: 0,
			ValueMax: 100,
		},
		Output: Output{
			Dir:      "output",
			Workbook: false,
			JSON:     false,
		},
		Logging: Logging{
			Level:   "info",
			Console: true,
		},
	}
}
