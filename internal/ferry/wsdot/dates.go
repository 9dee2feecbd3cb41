package wsdot

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// legacyDatePattern matches the WCF-era "/Date(1700000000000-0700)/"
// encoding: epoch milliseconds wrapped in non-numeric characters, with an
// optional zone suffix that the embedded epoch already accounts for.
var legacyDatePattern = regexp.MustCompile(`/Date\((\d+)([+-]\d+)?\)/`)

// timeLayouts are the plain string encodings seen across schedule endpoint
// versions.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTime decodes a sailing timestamp from any of the provider's
// encodings: a legacy bracketed epoch, a timestamp string, or a bare epoch
// millisecond number. Returns nil when the value is absent or unparseable.
func parseTime(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return parseTimeString(str)
	}

	var millis float64
	if err := json.Unmarshal(raw, &millis); err == nil && millis > 0 {
		t := time.UnixMilli(int64(millis)).UTC()
		return &t
	}

	return nil
}

func parseTimeString(s string) *time.Time {
	if s == "" {
		return nil
	}

	if m := legacyDatePattern.FindStringSubmatch(s); m != nil {
		millis, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil
		}
		t := time.UnixMilli(millis).UTC()
		return &t
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
