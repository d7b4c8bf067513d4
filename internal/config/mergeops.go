package config

import (
	"gopkg.in/yaml.v3"
)

type rawMerge struct {
	Source           string `yaml:"source"`
	Dest             string `yaml:"dest"`
	AutoMerge        string `yaml:"auto-merge"`
	Path             string `yaml:"path"`
	ArrayMode        string `yaml:"array_mode"`
	Append           *bool  `yaml:"append"`
	Position         string `yaml:"position"`
	Section          string `yaml:"section"`
	AllowDuplicates  bool   `yaml:"allow-duplicates"`
	Level            int    `yaml:"level"`
	CreateSection    bool   `yaml:"create_section"`
	PreserveComments bool   `yaml:"preserve_comments"`
	Defer            bool   `yaml:"defer"`
}

// decodeMergeOp decodes and validates one of the five structured-merge
// operator variants (spec §4.5). The source+dest / auto-merge mutual
// exclusivity and the array_mode/append legacy equivalence are enforced
// here at parse time.
func decodeMergeOp(format Format, val *yaml.Node, loc Location) (*MergeOp, error) {
	var raw rawMerge
	if err := val.Decode(&raw); err != nil {
		return nil, newParseError(loc.File, loc.Index, "invalid %s merge operation: %v", format, err)
	}

	hasSourceDest := raw.Source != "" || raw.Dest != ""
	hasAutoMerge := raw.AutoMerge != ""

	if hasSourceDest && hasAutoMerge {
		return nil, newParseError(loc.File, loc.Index, "%s merge: source/dest and auto-merge are mutually exclusive", format)
	}
	if !hasSourceDest && !hasAutoMerge {
		return nil, newParseError(loc.File, loc.Index, "%s merge: requires either source+dest or auto-merge", format)
	}

	m := &MergeOp{
		Format:           format,
		Path:             raw.Path,
		Section:          raw.Section,
		AllowDuplicates:  raw.AllowDuplicates,
		Level:            raw.Level,
		CreateSection:    raw.CreateSection,
		PreserveComments: raw.PreserveComments,
		Defer:            raw.Defer,
	}

	if hasAutoMerge {
		m.Source = raw.AutoMerge
		m.Dest = raw.AutoMerge
		m.AutoMerge = raw.AutoMerge
		m.Defer = true
	} else {
		if raw.Source == "" || raw.Dest == "" {
			return nil, newParseError(loc.File, loc.Index, "%s merge: both source and dest are required", format)
		}
		m.Source = raw.Source
		m.Dest = raw.Dest
	}

	if m.Level == 0 {
		m.Level = 2
	}

	switch raw.Position {
	case "", string(PositionEnd):
		m.Position = PositionEnd
	case string(PositionStart):
		m.Position = PositionStart
	default:
		return nil, newParseError(loc.File, loc.Index, "%s merge: invalid position %q", format, raw.Position)
	}

	if raw.Append != nil {
		m.Append = *raw.Append
		if *raw.Append && raw.ArrayMode == "" {
			m.ArrayMode = ArrayAppend
		}
	}

	if raw.ArrayMode != "" {
		switch ArrayMode(raw.ArrayMode) {
		case ArrayReplace, ArrayAppend, ArrayAppendUnique:
			m.ArrayMode = ArrayMode(raw.ArrayMode)
		default:
			return nil, newParseError(loc.File, loc.Index, "%s merge: invalid array_mode %q", format, raw.ArrayMode)
		}
	} else if m.ArrayMode == "" {
		m.ArrayMode = ArrayReplace
	}

	return m, nil
}
