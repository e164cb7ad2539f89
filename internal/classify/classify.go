package classify

import (
	"strings"

	"vacsift-engine/internal/config"
	"vacsift-engine/internal/domain"
)

// Path names the hops from a raw company document down to its primary
// classification code and label.
type Path struct {
	Section string
	Main    string
	Code    string
	Label   string
}

func PathFromConfig(c config.Classify) Path {
	return Path{Section: c.Section, Main: c.Main, Code: c.Code, Label: c.Label}
}

// Classification walks raw[Section][Main] and returns the code and label
// found there. Both come back nil when any hop is absent or not an object.
func Classification(raw domain.RawRecord, p Path) (code, label *string) {
	section := Coerce(raw[p.Section])
	if section.Kind() != KindRecord {
		return nil, nil
	}
	main := Coerce(section.Field(p.Main))
	if main.Kind() != KindRecord {
		return nil, nil
	}
	if s, ok := main.Field(p.Code).(string); ok {
		code = &s
	}
	if s, ok := main.Field(p.Label).(string); ok {
		label = &s
	}
	return code, label
}

// KeepCompany is the business filter: a record survives only when its
// primary classification code is present and belongs to the configured
// code family.
func KeepCompany(code *string, prefix string) bool {
	return code != nil && *code != "" && strings.HasPrefix(*code, prefix)
}
