package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New monta o logger do serviço; se logFile for informado, também grava em
// arquivo com rotação (JSON, sempre em nível info)
func New(serviceName string, env string, logFile string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}

	// sempre garantir que serviço e env entrem como campos padrão
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("env", env),
	}

	l, err := cfg.Build(zap.Fields(fields...))
	if err != nil {
		return nil, err
	}
	if logFile == "" {
		return l, nil
	}

	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	file := zapcore.NewCore(
		zapcore.NewJSONEncoder(fileEnc),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     30, // dias
			Compress:   true,
		}),
		zap.InfoLevel,
	).With(fields)
	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, file)
	})), nil
}
