// Logging, kept close to a VictoriaMetrics importer's own logger package:
// the CollectableLogger/ModuleDirPathCache/field-sort formatter machinery
// is generic logrus plumbing with nothing VMI-specific in it.

package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LoggerConfigUseJsonDefault             = true
	LoggerConfigLevelDefault                = "info"
	LoggerConfigDisableSrcFileDefault       = false
	LoggerConfigLogFileDefault              = "" // i.e. stderr
	LoggerConfigLogFileMaxSizeMBDefault     = 10
	LoggerConfigLogFileMaxBackupNumDefault  = 1

	LoggerDefaultLevel    = logrus.InfoLevel
	LoggerTimestampFormat = time.RFC3339
	// Extra field added for component sub loggers:
	LoggerComponentFieldName = "comp"
)

// CollectableLogger wraps logrus.Logger for test-harness collection (see
// internal/testutils/log_collector.go).
type CollectableLogger struct {
	logrus.Logger
	// Cache the condition of being enabled for debug or not, so hot paths
	// can test it before doing more expensive work.
	IsEnabledForDebug bool
}

func (log *CollectableLogger) GetOutput() io.Writer {
	return log.Out
}

func (log *CollectableLogger) GetLevel() any {
	return log.Logger.GetLevel()
}

func (log *CollectableLogger) SetLevel(level any) {
	if level, ok := level.(logrus.Level); ok {
		log.Logger.SetLevel(level)
		log.IsEnabledForDebug = log.IsLevelEnabled(logrus.DebugLevel)
	}
}

type LoggerConfig struct {
	UseJson             bool   `yaml:"use_json"`
	Level               string `yaml:"level"`
	DisableSrcFile      bool   `yaml:"disable_src_file"`
	LogFile             string `yaml:"log_file"`
	LogFileMaxSizeMB    int    `yaml:"log_file_max_size_mb"`
	LogFileMaxBackupNum int    `yaml:"log_file_max_backup_num"`
}

func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		UseJson:             LoggerConfigUseJsonDefault,
		Level:               LoggerConfigLevelDefault,
		DisableSrcFile:      LoggerConfigDisableSrcFileDefault,
		LogFile:             LoggerConfigLogFileDefault,
		LogFileMaxSizeMB:    LoggerConfigLogFileMaxSizeMBDefault,
		LogFileMaxBackupNum: LoggerConfigLogFileMaxBackupNumDefault,
	}
}

// When files are logged, the file name is converted to a relative path
// based on the module root dir; each longest-matching prefix is stripped.
type ModuleDirPathCache struct {
	prefixList []string
	keepNDirs  int
}

func (p *ModuleDirPathCache) addPrefix(prefix string) error {
	i := len(p.prefixList) - 1
	for i >= 0 {
		if p.prefixList[i] == prefix {
			return nil
		}
		if len(p.prefixList[i]) > len(prefix) {
			break
		}
		i--
	}
	i++
	if i >= len(p.prefixList) {
		p.prefixList = append(p.prefixList, prefix)
	} else {
		p.prefixList = append(p.prefixList[:i+1], p.prefixList[i:]...)
		p.prefixList[i] = prefix
	}
	return nil
}

func (p *ModuleDirPathCache) stripPrefix(filePath string) string {
	for _, prefix := range p.prefixList {
		if strings.HasPrefix(filePath, prefix) {
			return filePath[len(prefix):]
		}
	}
	pathComp := strings.Split(filePath, "/")
	keepNComps := p.keepNDirs + 1
	if keepNComps < 1 {
		keepNComps = 1
	}
	if keepNComps < len(pathComp) {
		filePath = path.Join(pathComp[len(pathComp)-keepNComps:]...)
	}
	return filePath
}

func (p *ModuleDirPathCache) SetKeepNDirs(n int) {
	p.keepNDirs = n
}

var moduleDirPathCache = &ModuleDirPathCache{
	prefixList: []string{},
	keepNDirs:  1,
}

// AddCallerSrcPathPrefixToLogger adds the prefix based on the caller's
// stack, going back upNDirs directories from the caller's file path.
func AddCallerSrcPathPrefixToLogger(upNDirs int, skip int) error {
	skip += 1
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return fmt.Errorf("cannot determine source root: runtime.Caller(%d) failed", skip)
	}
	prefix := path.Dir(file)
	for i := 0; i < upNDirs; i++ {
		prefix = path.Dir(prefix)
	}
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	moduleDirPathCache.addPrefix(prefix)
	return nil
}

type LogFuncFilePair struct {
	function string
	file     string
}

type LogFuncFileCache struct {
	m             *sync.Mutex
	funcFileCache map[uintptr]*LogFuncFilePair
}

func (c *LogFuncFileCache) LogCallerPrettyfier(f *runtime.Frame) (function string, file string) {
	c.m.Lock()
	defer c.m.Unlock()
	funcFile := c.funcFileCache[f.PC]
	if funcFile == nil {
		funcFile = &LogFuncFilePair{
			"",
			fmt.Sprintf("%s:%d", moduleDirPathCache.stripPrefix(f.File), f.Line),
		}
		c.funcFileCache[f.PC] = funcFile
	}
	return funcFile.function, funcFile.file
}

var logFunctionFileCache = &LogFuncFileCache{
	m:             &sync.Mutex{},
	funcFileCache: make(map[uintptr]*LogFuncFilePair),
}

var LogFieldKeySortOrder = map[string]int{
	logrus.FieldKeyTime:      -5,
	logrus.FieldKeyLevel:     -4,
	LoggerComponentFieldName: -3,
	logrus.FieldKeyFile:      -2,
	logrus.FieldKeyFunc:      -1,
	logrus.FieldKeyMsg:       1,
}

type LogFieldKeySortable struct {
	keys []string
}

func (d *LogFieldKeySortable) Len() int { return len(d.keys) }

func (d *LogFieldKeySortable) Less(i, j int) bool {
	keyI, keyJ := d.keys[i], d.keys[j]
	orderI, orderJ := LogFieldKeySortOrder[keyI], LogFieldKeySortOrder[keyJ]
	if orderI != 0 || orderJ != 0 {
		return orderI < orderJ
	}
	return strings.Compare(keyI, keyJ) == -1
}

func (d *LogFieldKeySortable) Swap(i, j int) {
	d.keys[i], d.keys[j] = d.keys[j], d.keys[i]
}

func LogSortFieldKeys(keys []string) {
	sort.Sort(&LogFieldKeySortable{keys})
}

var LogTextFormatter = &logrus.TextFormatter{
	DisableColors:    true,
	DisableQuote:     false,
	FullTimestamp:    true,
	TimestampFormat:  LoggerTimestampFormat,
	CallerPrettyfier: logFunctionFileCache.LogCallerPrettyfier,
	DisableSorting:   false,
	SortingFunc:      LogSortFieldKeys,
}

var LogJsonFormatter = &logrus.JSONFormatter{
	TimestampFormat:  LoggerTimestampFormat,
	CallerPrettyfier: logFunctionFileCache.LogCallerPrettyfier,
}

var RootLogger = &CollectableLogger{
	Logger: logrus.Logger{
		Out:          os.Stderr,
		Formatter:    LogTextFormatter,
		Level:        LoggerDefaultLevel,
		ReportCaller: true,
	},
}

func GetRootLogger() *CollectableLogger { return RootLogger }

func GetLogLevelNames() []string {
	levelNames := make([]string, len(logrus.AllLevels))
	for i, level := range logrus.AllLevels {
		levelNames[i] = level.String()
	}
	return levelNames
}

func init() {
	AddCallerSrcPathPrefixToLogger(2, 0)
}

// SetLogger applies logCfg to RootLogger; a nil logCfg applies the defaults.
func SetLogger(logCfg *LoggerConfig) error {
	if logCfg == nil {
		logCfg = DefaultLoggerConfig()
	}

	if levelName := logCfg.Level; levelName != "" {
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			return err
		}
		RootLogger.SetLevel(level)
	}

	if logCfg.UseJson {
		RootLogger.SetFormatter(LogJsonFormatter)
	} else {
		RootLogger.SetFormatter(LogTextFormatter)
	}

	RootLogger.SetReportCaller(!logCfg.DisableSrcFile)

	switch logFile := logCfg.LogFile; logFile {
	case "stderr":
		RootLogger.SetOutput(os.Stderr)
	case "stdout":
		RootLogger.SetOutput(os.Stdout)
	case "":
	default:
		logDir := path.Dir(logCfg.LogFile)
		if _, err := os.Stat(logDir); err != nil {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				return err
			}
		}
		_, err := os.Stat(logCfg.LogFile)
		forceRotate := err == nil
		rotated := &lumberjack.Logger{
			Filename:   logCfg.LogFile,
			MaxSize:    logCfg.LogFileMaxSizeMB,
			MaxBackups: logCfg.LogFileMaxBackupNum,
		}
		if forceRotate {
			if err := rotated.Rotate(); err != nil {
				return err
			}
		}
		RootLogger.SetOutput(rotated)
	}

	return nil
}

func NewCompLogger(compName string) *logrus.Entry {
	return RootLogger.WithField(LoggerComponentFieldName, compName)
}
