// Package diag configures how diagnostics are presented.
//
// Diagnostics themselves are produced elsewhere (language servers, the
// host's linters); the loader only decides their presentation: severity
// ordering, inline virtual text, and gutter signs. The host exposes a
// Sink and the loader pushes one Presentation into it per run.
package diag

import "github.com/mdevan/kindling/internal/config"

// Severity ranks a diagnostic. Lower values are more severe, matching
// the language-server protocol's numbering.
type Severity int

// Diagnostic severities.
const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MoreSevere reports whether s outranks other.
func (s Severity) MoreSevere(other Severity) bool {
	return s < other
}

// Presentation is the displayed shape of diagnostics.
type Presentation struct {
	// SortBySeverity orders co-located diagnostics most severe first.
	SortBySeverity bool

	// VirtualText shows diagnostics inline after the offending line.
	VirtualText bool

	// VirtualTextPrefix is the marker before inline text.
	VirtualTextPrefix string

	// Signs shows gutter signs.
	Signs bool

	// UpdateInInsert refreshes diagnostics while typing.
	UpdateInInsert bool
}

// FromConfig builds a Presentation from the config file section.
func FromConfig(c config.Diagnostics) Presentation {
	p := Presentation{
		SortBySeverity:    c.SortBySeverity,
		VirtualText:       c.VirtualText,
		VirtualTextPrefix: c.VirtualTextPrefix,
		Signs:             c.Signs,
		UpdateInInsert:    c.UpdateInInsert,
	}
	if p.VirtualText && p.VirtualTextPrefix == "" {
		p.VirtualTextPrefix = "●"
	}
	return p
}

// Sink is the host surface that accepts presentation configuration.
type Sink interface {
	ConfigurePresentation(Presentation) error
}

// Apply pushes the presentation into the sink.
func Apply(sink Sink, p Presentation) error {
	return sink.ConfigurePresentation(p)
}
