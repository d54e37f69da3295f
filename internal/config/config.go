// Package config loads and validates the copymedia configuration file.
// Validation is eager: a broken rule set or missing directory is
// detected at load time, before any file is touched.
package config

import (
	"os"

	"copymedia/internal/errors"
	"copymedia/internal/log"
	"copymedia/pkg/types"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. The file is YAML;
// since YAML is a superset of JSON, configs written for the original
// CopyMedia.json format load unchanged.
type Config struct {
	ScanDir   string             `yaml:"scanDir,omitempty"`   // Directory scanned when no explicit file is given
	SeriesDir string             `yaml:"seriesDir,omitempty"` // Root for per-series destination folders
	MoveDir   string             `yaml:"moveDir,omitempty"`   // Legacy alias for seriesDir
	MovieDir  string             `yaml:"movieDir,omitempty"`  // Flat destination for movies
	Ignore    []string           `yaml:"ignore,omitempty"`    // Glob patterns for scan entries to skip (e.g. "*.part")
	LogFile   string             `yaml:"logFile,omitempty"`
	LogLevel  string             `yaml:"logLevel,omitempty"`
	Series    []types.SeriesRule `yaml:"series"` // Ordered; first matching rule wins

	ignore []glob.Glob
}

// LoadConfigFile reads and parses the configuration at path. Validation
// is a separate step so command-line overrides can be merged first.
func LoadConfigFile(path string) (*Config, error) {
	log.Debugf("Using configuration file: [%s]", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError("configuration file not found", path, errors.ConfigNotFound, err)
		}
		return nil, errors.NewConfigError("error reading configuration file", path, errors.InvalidConfig, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError("error parsing configuration file", path, errors.InvalidConfig, err)
	}

	// moveDir predates seriesDir; honor it when seriesDir is absent.
	if cfg.SeriesDir == "" && cfg.MoveDir != "" {
		cfg.SeriesDir = cfg.MoveDir
	}

	return &cfg, nil
}

// Overrides carries the command-line values that take precedence over
// the configuration file.
type Overrides struct {
	ScanDir   string
	SeriesDir string
	MovieDir  string
}

// Apply merges non-empty override values into the configuration.
func (c *Config) Apply(o Overrides) {
	if o.ScanDir != "" {
		c.ScanDir = o.ScanDir
	}
	if o.SeriesDir != "" {
		c.SeriesDir = o.SeriesDir
	}
	if o.MovieDir != "" {
		c.MovieDir = o.MovieDir
	}
}

// Validate checks the merged configuration and compiles every rule
// pattern and ignore glob. haveFile indicates that an explicit input
// file was supplied, which makes the scan directory optional.
func (c *Config) Validate(haveFile bool) error {
	if !haveFile && c.ScanDir == "" {
		log.Errorf("Must either specify a file or a directory to scan")
		return errors.NewConfigError("missing directory to scan", "scanDir", errors.MissingScanSource, nil)
	}

	if c.SeriesDir == "" {
		log.Errorf("Destination series directory must be specified, either on the command line or in the configuration file")
		return errors.NewConfigError("missing destination series directory", "seriesDir", errors.MissingDestination, nil)
	}
	log.Debugf("Destination series directory: [%s]", c.SeriesDir)

	if c.MovieDir == "" {
		log.Errorf("Destination movie directory must be specified, either on the command line or in the configuration file")
		return errors.NewConfigError("missing destination movie directory", "movieDir", errors.MissingDestination, nil)
	}
	log.Debugf("Destination movie directory: [%s]", c.MovieDir)

	if len(c.Series) == 0 {
		log.Warnf("No series configured")
	}
	if err := c.compileSeries(); err != nil {
		return err
	}

	c.ignore = c.ignore[:0]
	for _, pattern := range c.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return errors.NewConfigError("invalid ignore pattern", pattern, errors.InvalidConfig, err)
		}
		c.ignore = append(c.ignore, g)
	}

	return nil
}

// compileSeries validates the series entries. A series must have at
// least a name and a regex pattern to match file names against.
func (c *Config) compileSeries() error {
	for i := range c.Series {
		rule := &c.Series[i]
		if rule.Name == "" {
			log.Error("Series entry has no name defined", rule.Regex)
			return errors.NewRuleError("series rule has no name", rule.Regex, errors.InvalidRule, nil)
		}
		if rule.Regex == "" {
			log.Error("Series entry has no regex pattern defined", rule.Name)
			return errors.NewRuleError("series rule has no regex pattern", rule.Name, errors.InvalidRule, nil)
		}
		if err := rule.Compile(); err != nil {
			log.Error("Series entry has an invalid regex pattern", rule.Name)
			return errors.NewRuleError("series rule has an invalid regex pattern", rule.Name, errors.InvalidRule, err)
		}
		log.Debugf("Validated series [%s] with pattern [%s]", rule.Name, rule.Regex)
	}
	return nil
}

// Ignored reports whether a scanned filename matches any ignore glob.
func (c *Config) Ignored(name string) bool {
	for _, g := range c.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}
