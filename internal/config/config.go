// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the inputs file.
package config

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
	"github.com/iwvelando/roi-forecast/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Configuration holds all inputs and settings for roi-forecast.
type Configuration struct {
	Logging   LoggingConfig      `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig       `yaml:"output,omitempty" mapstructure:"output"`
	Session   SessionConfig      `yaml:"session,omitempty" mapstructure:"session"`
	Homeowner *roi.HomeownerData `yaml:"homeowner,omitempty" mapstructure:"homeowner"`
	Provider  *roi.ProviderData  `yaml:"provider,omitempty" mapstructure:"provider"`
	Quotes    []QuoteConfig      `yaml:"quotes,omitempty" mapstructure:"quotes"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, xlsx
	File   string `yaml:"file,omitempty" mapstructure:"file"`     // required for xlsx
}

// SessionConfig identifies the user the CLI acts for and their default niche.
type SessionConfig struct {
	Name  string `yaml:"name,omitempty" mapstructure:"name"`
	Email string `yaml:"email,omitempty" mapstructure:"email"`
	Niche string `yaml:"niche,omitempty" mapstructure:"niche"`
}

// QuoteConfig is one niche quote in the inputs file. Only the block that
// matches Niche is read; Niche falls back to the session niche.
type QuoteConfig struct {
	Name       string                `yaml:"name,omitempty" mapstructure:"name"`
	Niche      string                `yaml:"niche,omitempty" mapstructure:"niche"`
	Solar      quote.SolarInput      `yaml:"solar,omitempty" mapstructure:"solar"`
	HVAC       quote.HVACInput       `yaml:"hvac,omitempty" mapstructure:"hvac"`
	Remodeling quote.RemodelingInput `yaml:"remodeling,omitempty" mapstructure:"remodeling"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "error reading config file %s", configPath)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "error reading config data")
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, eris.Wrap(err, "error reading config data")
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, eris.Wrap(err, "unable to decode into struct")
	}
	return &configuration, nil
}

// Request resolves the quote's niche, falling back to defaultNiche, and
// returns the calculator request with canonical option values.
func (q QuoteConfig) Request(defaultNiche string) (quote.Request, error) {
	name := q.Niche
	if name == "" {
		name = defaultNiche
	}
	niche, err := quote.ParseNiche(name)
	if err != nil {
		return quote.Request{}, eris.Wrapf(err, "quote %q", q.Name)
	}
	req, err := quote.Request{
		Niche:      niche,
		Solar:      q.Solar,
		HVAC:       q.HVAC,
		Remodeling: q.Remodeling,
	}.Normalize()
	if err != nil {
		return quote.Request{}, eris.Wrapf(err, "quote %q", q.Name)
	}
	return req, nil
}

// QuoteRequests resolves every configured quote.
func (conf *Configuration) QuoteRequests() ([]quote.Request, error) {
	requests := make([]quote.Request, 0, len(conf.Quotes))
	for _, q := range conf.Quotes {
		req, err := q.Request(conf.Session.Niche)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Empty reports whether the configuration carries no calculator inputs.
func (conf *Configuration) Empty() bool {
	return conf.Homeowner == nil && conf.Provider == nil && len(conf.Quotes) == 0
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Empty() {
		warnings = append(warnings, "Configuration contains no homeowner, provider or quote inputs")
	}
	if conf.Homeowner != nil {
		for _, w := range validation.HomeownerWarnings(*conf.Homeowner) {
			warnings = append(warnings, "homeowner: "+w)
		}
	}
	if conf.Provider != nil {
		for _, w := range validation.ProviderWarnings(*conf.Provider) {
			warnings = append(warnings, "provider: "+w)
		}
	}
	for i, q := range conf.Quotes {
		label := q.Name
		if label == "" {
			label = "#" + strconv.Itoa(i+1)
		}
		req, err := q.Request(conf.Session.Niche)
		if err != nil {
			warnings = append(warnings, "quote "+label+": "+err.Error())
			continue
		}
		for _, w := range validation.QuoteWarnings(req) {
			warnings = append(warnings, "quote "+label+": "+w)
		}
	}
	if conf.Session.Niche != "" {
		if _, err := quote.ParseNiche(conf.Session.Niche); err != nil {
			warnings = append(warnings, "session: "+err.Error())
		}
	}

	return warnings
}
