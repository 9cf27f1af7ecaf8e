package slogobs

import "strings"

// Format selects how a Handler renders records.
type Format string

const (
	// FormatCompact renders one line per record:
	//   15:04:05.000 DEBUG JSON recovered strategy=identity attempts=1
	FormatCompact Format = "compact"

	// FormatJSON renders one JSON object per line for log shippers.
	FormatJSON Format = "json"
)

const (
	envLogFormat       = "JSONRESCUE_LOG_FORMAT"
	envLogFormatShared = "LOG_FORMAT"
)

// ParseFormat returns FormatJSON for "json" and FormatCompact otherwise.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatCompact
}

// GetFormatFromEnv reads JSONRESCUE_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	return ParseFormat(lookupEnv(envLogFormat, envLogFormatShared))
}

func (f Format) String() string {
	return string(f)
}
