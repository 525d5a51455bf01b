// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package console

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gobuffalo/envy"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ArchiveSuffix is appended to the log file name of the previous session
const ArchiveSuffix = ".lz4"

// NewLogger creates a logger writing to stdout and to the file at path.
// A log left by the previous session is compressed next to it first.
// The returned closer closes the log file.
func NewLogger(path string, level logrus.Level) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, errors.Wrap(err, "os.MkdirAll()")
	}

	if _, err := os.Stat(path); err == nil {
		if err := archive(path, path+ArchiveSuffix); err != nil {
			return nil, nil, err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "os.Create()")
	}

	logger := logrus.New()
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	logger.SetLevel(level)
	return logger, f, nil
}

// LevelFromEnv reads a log level from an environment variable
func LevelFromEnv(key string, fallback logrus.Level) logrus.Level {
	value := envy.Get(key, "")
	if value == "" {
		return fallback
	}
	level, err := logrus.ParseLevel(value)
	if err != nil {
		return fallback
	}
	return level
}

func archive(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "os.Open()")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "os.Create()")
	}
	defer out.Close()

	writer := lz4.NewWriter(out)
	if _, err := io.Copy(writer, in); err != nil {
		return errors.Wrap(err, "lz4.Writer.Write()")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "lz4.Writer.Close()")
	}
	return nil
}
