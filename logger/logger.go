package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log       *zap.SugaredLogger
	ZapLogger *zap.Logger // Expose the raw zap Logger
)

func init() {
	// Until InitLogger runs (or when packages are used from tests), log to nothing.
	ZapLogger = zap.NewNop()
	Log = ZapLogger.Sugar()
}

// InitLogger configures the package-level logger to write to modshelf.log.
func InitLogger() {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		// key=value console output with a simple separator
		ConsoleSeparator: "  ",
	}

	logFile, err := os.OpenFile("modshelf.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("can't open log file: %v", err)
	}
	fileWriter := zapcore.AddSync(logFile)

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		fileWriter,
		zap.InfoLevel,
	)

	ZapLogger = zap.New(core)
	Log = ZapLogger.Sugar()
	Log.Info("Logger initialized, logging to modshelf.log")
}

func Sync() {
	if ZapLogger != nil {
		_ = ZapLogger.Sync() // flushes buffer, if any
	}
}
