package mldb

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// QueryLogField is the log field holding a query.
	QueryLogField = "query"
	// DatasetLogField is the log field holding a dataset name.
	DatasetLogField = "dataset"
	// KindLogField is the log field holding a dataset kind.
	KindLogField = "kind"
)

// ConfigureLogging sets the level and the format of the standard logger.
// Format is either text or json.
func ConfigureLogging(level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}

	switch strings.ToLower(format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return ErrInvalidLogFormat.New(format)
	}

	return nil
}
