package wsdot

import (
	"encoding/json"
	"time"

	"github.com/takemehome/takemehome/internal/ferry"
)

// The schedule endpoint's response shape is not stable across versions: the
// sailings may be grouped per terminal combination, nested under a legacy
// named result field, delivered as a bare list, or be a single object.
// sailingShapes is the ordered list of parsers tried against a payload;
// the first one that matches wins.
var sailingShapes = []shapeParser{
	parseTerminalCombos,
	parseLegacyResultFields,
	parseBareList,
	parseSingleObject,
}

// shapeParser extracts raw sailing objects from a payload, reporting
// whether the payload matched its shape.
type shapeParser func(payload json.RawMessage) ([]json.RawMessage, bool)

// extractSailings normalizes a schedule payload into parsed sailings.
func extractSailings(payload json.RawMessage) []ferry.Sailing {
	for _, parse := range sailingShapes {
		raws, ok := parse(payload)
		if !ok {
			continue
		}
		sailings := make([]ferry.Sailing, 0, len(raws))
		for _, raw := range raws {
			sailings = append(sailings, parseSailing(raw))
		}
		return sailings
	}
	return nil
}

// parseTerminalCombos matches {"TerminalCombos":[{"Times":[...]}, ...]} and
// concatenates the sailing lists across combos.
func parseTerminalCombos(payload json.RawMessage) ([]json.RawMessage, bool) {
	var wrapper struct {
		TerminalCombos []struct {
			Times json.RawMessage `json:"Times"`
		} `json:"TerminalCombos"`
	}
	if err := json.Unmarshal(payload, &wrapper); err != nil || wrapper.TerminalCombos == nil {
		return nil, false
	}

	var raws []json.RawMessage
	for _, combo := range wrapper.TerminalCombos {
		raws = append(raws, toRawList(combo.Times)...)
	}
	return raws, true
}

// legacyResultFields are older per-endpoint-version wrapper field names,
// in lookup priority order.
var legacyResultFields = []string{
	"GetTodaysScheduleByTerminalComboResult",
	"GetScheduleByTerminalComboResult",
	"GetScheduleByRouteResult",
}

// parseLegacyResultFields matches payloads wrapped in a legacy named result
// field.
func parseLegacyResultFields(payload json.RawMessage) ([]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, false
	}
	for _, name := range legacyResultFields {
		if inner, ok := fields[name]; ok {
			return toRawList(inner), true
		}
	}
	return nil, false
}

// parseBareList matches a payload that is itself the sailings list.
func parseBareList(payload json.RawMessage) ([]json.RawMessage, bool) {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, false
	}
	return raws, true
}

// parseSingleObject treats a lone object as a one-element list.
func parseSingleObject(payload json.RawMessage) ([]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, false
	}
	return []json.RawMessage{payload}, true
}

// toRawList coerces a value into a list of raw objects: a list is itself, an
// object whose fields hold a list yields that list, any other object is a
// one-element list.
func toRawList(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	for _, v := range fields {
		if err := json.Unmarshal(v, &list); err == nil {
			return list
		}
	}
	return []json.RawMessage{raw}
}

// Field-name variants across schedule endpoint versions, in priority order.
var (
	departureFields = []string{
		"DepartingTime",
		"DepartureTime",
		"DepartingDateTime",
		"DepartureDateTime",
		"ScheduledDeparture",
	}
	arrivalFields = []string{
		"ArrivingTime",
		"ArrivalTime",
		"ArrivingDateTime",
		"ArrivalDateTime",
		"ScheduledArrival",
	}
	cancelledFields = []string{
		"IsCancelled",
		"IsCanceled",
		"Canceled",
		"Cancelled",
	}
)

// parseSailing decodes one raw sailing object, tolerating the field-name
// and timestamp-encoding variants.
func parseSailing(raw json.RawMessage) ferry.Sailing {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ferry.Sailing{}
	}

	return ferry.Sailing{
		Departure: firstTime(fields, departureFields),
		Arrival:   firstTime(fields, arrivalFields),
		Cancelled: firstTruthy(fields, cancelledFields),
	}
}

func firstTime(fields map[string]json.RawMessage, names []string) *time.Time {
	for _, name := range names {
		if raw, ok := fields[name]; ok {
			if t := parseTime(raw); t != nil {
				return t
			}
		}
	}
	return nil
}

// firstTruthy reports whether any of the named fields holds a truthy value:
// boolean true, a non-zero number, or a non-empty string all count.
func firstTruthy(fields map[string]json.RawMessage, names []string) bool {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if truthy(raw) {
			return true
		}
	}
	return false
}

func truthy(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != ""
	}
	return false
}
