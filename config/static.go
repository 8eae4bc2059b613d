package config

import (
	"io/ioutil"
	"os"
	"reflect"
	"time"

	"github.com/creasty/defaults"
	yaml "gopkg.in/yaml.v2"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		Log          LogStaticCfg       `yaml:"LogConfig"`
		Scoring      ScoringStaticCfg   `yaml:"Scoring"`
		Allowlist    AllowlistStaticCfg `yaml:"Allowlist"`
		UserConfig   UserCfg            `yaml:"UserConfig"`
		Version      string
		ExactVersion string
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath" default:"/var/log/cadence"`
		LogToFile bool   `yaml:"LogToFile" default:"false"`
	}

	//ScoringStaticCfg holds the tunable thresholds for the beacon
	//analysis module. A copy of this struct is handed to each analysis
	//invocation; there is no global scoring state.
	ScoringStaticCfg struct {
		// flows with fewer connections than this are never reported
		MinConnections int `yaml:"MinConnections" default:"5"`
		// jitter percentages above this contribute nothing to the score
		MaxJitterPct float64 `yaml:"MaxJitterPct" default:"25"`
		// flows spanning less time than this are never reported.
		// expressed in minutes in the config file.
		MinTimeSpan time.Duration `yaml:"MinTimeSpanMinutes" default:"5"`
		// minimum score for a flow to appear in summary results
		ScoreThreshold float64 `yaml:"ScoreThreshold" default:"0.6"`
		// scores at or above these cutoffs raise the confidence band
		MediumCutoff float64 `yaml:"MediumCutoff" default:"0.7"`
		HighCutoff   float64 `yaml:"HighCutoff" default:"0.85"`
		// relative weights of the jitter and histogram sub-scores
		JitterWeight    float64 `yaml:"JitterWeight" default:"0.5"`
		HistogramWeight float64 `yaml:"HistogramWeight" default:"0.5"`
		// number of histogram bins for the periodicity scorer
		HistogramBins int `yaml:"HistogramBins" default:"10"`
		// flows with more connections than this are classified as
		// strobes and skip interval statistics
		ConnectionLimit int64 `yaml:"ConnectionLimit" default:"100000"`
	}

	//AllowlistStaticCfg lists known infrastructure excluded from
	//beacon flagging
	AllowlistStaticCfg struct {
		// exact destination addresses (public DNS resolvers by default)
		Addresses []string `yaml:"Addresses" default:"[\"8.8.8.8\", \"8.8.4.4\", \"1.1.1.1\", \"1.0.0.1\", \"9.9.9.9\", \"149.112.112.112\"]"`
		// well-known periodic service ports (DNS, NTP)
		Ports []int `yaml:"Ports" default:"[53, 123]"`
		// destination CIDR ranges
		Subnets []string `yaml:"Subnets" default:"[]"`
	}

	//UserCfg holds user-facing preferences
	UserCfg struct {
		UpdateCheckFrequency int `yaml:"UpdateCheckFrequency" default:"14"`
	}
)

//loadStaticConfig attempts to parse a config file
func loadStaticConfig(cfgPath string) (*StaticCfg, error) {
	var config = new(StaticCfg)

	_, err := os.Stat(cfgPath)
	if os.IsNotExist(err) {
		return config, err
	}

	cfgFile, err := ioutil.ReadFile(cfgPath)
	if err != nil {
		return config, err
	}

	if err := parseStaticConfig(cfgFile, config); err != nil {
		return config, err
	}

	return config, nil
}

//parseStaticConfig loads the yaml from cfgFile into the provided config struct.
//It also fixes up data modified during the load and applies defaults.
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {

	// Initialize to the default values before deserializing
	if err := defaults.Set(config); err != nil {
		return err
	}

	if err := yaml.Unmarshal(cfgFile, config); err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	// the config file expresses the minimum time span in minutes
	config.Scoring.MinTimeSpan *= time.Minute

	// grab the version constants set by the build process
	config.Version = Version
	config.ExactVersion = ExactVersion

	return nil
}
