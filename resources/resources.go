package resources

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"time"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"

	"github.com/nethawk/cadence/config"
	"github.com/nethawk/cadence/util"
)

type (
	//Resources provides a data structure for passing system resources
	Resources struct {
		Config *config.Config
		Log    *log.Logger
	}
)

//InitResources grabs the configuration file and initializes the
//configuration data, returning a *Resources object which holds
//everything the commands need
func InitResources(cfgPath string) *Resources {
	conf, err := config.GetConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %s\n", err.Error())
		os.Exit(-1)
	}

	// Fire up the logging system
	logger, err := initLog(conf.S.Log.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to prep logger: %s\n", err.Error())
		os.Exit(-1)
	}
	if conf.S.Log.LogToFile {
		addFileLogger(logger, conf.S.Log.LogPath)
	}

	return &Resources{
		Config: conf,
		Log:    logger,
	}
}

//initLog creates the logger for logging to stdout and file
func initLog(level int) (*log.Logger, error) {
	var logs = &log.Logger{}

	logs.Formatter = new(log.TextFormatter)

	logs.Out = ioutil.Discard
	logs.Hooks = make(log.LevelHooks)

	switch level {
	case 3:
		logs.SetLevel(log.DebugLevel)
	case 2:
		logs.SetLevel(log.InfoLevel)
	case 1:
		logs.SetLevel(log.WarnLevel)
	case 0:
		logs.SetLevel(log.ErrorLevel)
	default:
		return nil, fmt.Errorf("invalid log level %d", level)
	}
	return logs, nil
}

//addFileLogger sets up logging to the directory at logPath,
//one file per level
func addFileLogger(logger *log.Logger, logPath string) {
	now := time.Now().Format(util.TimeFormat)
	logDir := path.Join(logPath, now)
	if !util.Exists(logDir) {
		err := os.MkdirAll(logDir, 0755)
		if err != nil {
			fmt.Println("[!] Could not initialize file logger. Check LogPath.")
			return
		}
	}

	logger.Hooks.Add(lfshook.NewHook(lfshook.PathMap{
		log.DebugLevel: path.Join(logDir, "debug.log"),
		log.InfoLevel:  path.Join(logDir, "info.log"),
		log.WarnLevel:  path.Join(logDir, "warn.log"),
		log.ErrorLevel: path.Join(logDir, "error.log"),
		log.FatalLevel: path.Join(logDir, "fatal.log"),
		log.PanicLevel: path.Join(logDir, "panic.log"),
	}, nil))
}

//InitTestResources returns a Resources object backed by the embedded
//testing configuration with logging discarded
func InitTestResources() *Resources {
	conf, err := config.LoadTestingConfig()
	if err != nil {
		panic(err)
	}
	logger := log.New()
	logger.Out = ioutil.Discard
	return &Resources{
		Config: conf,
		Log:    logger,
	}
}
