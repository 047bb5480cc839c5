package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ControlMessage is the shape produced by external controllers (web, TUI,
// message queue): a control type plus a free-form payload.
type ControlMessage struct {
	ControlType string                 `json:"controlType"`
	Payload     map[string]interface{} `json:"payload"`
}

// Write is a single planned mediator parameter write.
type Write struct {
	Param string
	Value interface{}
}

// MappingResult is the write plan derived from one control message.
// Ordering matters only for flag-then-value pairing.
type MappingResult struct {
	Writes []Write
	Detail string
}

// ControlKind is the closed set of recognized control types. Strings outside
// the set map to ControlUnknown, which is a graceful no-op rather than an
// error so new controller-side types do not break the bridge.
type ControlKind int

const (
	ControlUnknown ControlKind = iota
	ControlLiveParam
	ControlPrompts
	ControlTransport
	ControlMotionPreset
	ControlParamSource
	ControlMotionStyle
)

var controlKindNames = map[string]ControlKind{
	"liveParam":    ControlLiveParam,
	"prompts":      ControlPrompts,
	"transport":    ControlTransport,
	"motionPreset": ControlMotionPreset,
	"paramSource":  ControlParamSource,
	"motionStyle":  ControlMotionStyle,
}

// ParseControlKind resolves a control type string to its kind.
func ParseControlKind(controlType string) ControlKind {
	return controlKindNames[controlType]
}

// MapControl translates a control message into a concrete write plan. It is
// pure and never fails: unknown types yield an empty plan tagged
// "unknown:<type>", malformed payload keys are simply not matched.
func MapControl(controlType string, payload map[string]interface{}) MappingResult {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	switch ParseControlKind(controlType) {
	case ControlLiveParam:
		return mapLiveParams(payload)
	case ControlPrompts:
		return mapPrompts(payload)
	case ControlTransport:
		return mapTransport(payload)
	case ControlMotionPreset, ControlParamSource, ControlMotionStyle:
		// Validated upstream; no mediator writes required.
		return MappingResult{Detail: controlType}
	default:
		return MappingResult{Detail: "unknown:" + controlType}
	}
}

func mapLiveParams(payload map[string]interface{}) MappingResult {
	allowed := map[string]bool{
		"steps":         true,
		"seed":          true,
		"start_frame":   true,
		"should_resume": true,
	}
	for key := range ParamFlags {
		allowed[key] = true
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		if allowed[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var writes []Write
	for _, key := range keys {
		if flag, ok := ParamFlags[key]; ok {
			writes = append(writes, Write{Param: flag, Value: 1})
		}
		writes = append(writes, Write{Param: key, Value: payload[key]})
	}
	// Transport-style helpers tolerated in liveParam payloads.
	if raw, ok := payload["start_frame"]; ok {
		writes = append(writes, Write{Param: "start_frame", Value: asInt(raw)})
	}
	if raw, ok := payload["should_resume"]; ok && truthy(raw) {
		writes = append(writes, Write{Param: "should_resume", Value: 1})
	}
	return MappingResult{Writes: writes, Detail: "liveParam"}
}

func mapPrompts(payload map[string]interface{}) MappingResult {
	fields := make([]string, 0, len(PromptFields))
	for field := range PromptFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var writes []Write
	for _, field := range fields {
		if value, ok := payload[field]; ok {
			writes = append(writes, Write{Param: field, Value: value})
		}
	}
	return MappingResult{Writes: writes, Detail: "prompts"}
}

func mapTransport(payload map[string]interface{}) MappingResult {
	action := ""
	if raw, ok := payload["action"]; ok {
		action = strings.ToLower(asString(raw))
	}
	var writes []Write
	if raw, ok := payload["start_frame"]; ok {
		writes = append(writes, Write{Param: "start_frame", Value: asInt(raw)})
	}
	switch action {
	case "start", "resume", "toggle":
		writes = append(writes, Write{Param: "should_resume", Value: 1})
	case "stop":
		writes = append(writes, Write{Param: "is_paused_rendering", Value: 1})
	}
	return MappingResult{Writes: writes, Detail: "transport"}
}

func asInt(v interface{}) int {
	switch value := v.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

func truthy(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	case string:
		lower := strings.ToLower(strings.TrimSpace(value))
		return lower != "" && lower != "0" && lower != "false"
	default:
		return v != nil
	}
}
