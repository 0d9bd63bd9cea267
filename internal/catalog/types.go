package catalog

import (
	"encoding/json"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
)

// Kind is one of the two package categories Homebrew tracks. The same
// operations apply to both; the kind only selects endpoints and flags.
type Kind string

// Supported package kinds.
const (
	KindFormula Kind = "formula"
	KindCask    Kind = "cask"
)

// Kinds returns both kinds in a fixed order, for callers that iterate.
func Kinds() []Kind {
	return []Kind{KindFormula, KindCask}
}

// ParseKind converts user input into a Kind, accepting plural forms.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "formula", "formulae", "formulas":
		return KindFormula, nil
	case "cask", "casks":
		return KindCask, nil
	default:
		return "", errdefs.InvalidConfigf("invalid package kind %q (want formula or cask)", s)
	}
}

// Record is one catalog entry as served by formulae.brew.sh, restricted to
// the fields the data layer consumes. Formulae carry their identity in
// "name", casks in "token"; Versions.Stable is the formula version and
// Version the cask one. Decoding through a tagged struct keeps malformed
// upstream data failing at this one boundary.
type Record struct {
	Name          NameField `json:"name"`
	Token         string    `json:"token"`
	Desc          string    `json:"desc"`
	Homepage      string    `json:"homepage"`
	Versions      Versions  `json:"versions"`
	Version       string    `json:"version"`
	Dependencies  []string  `json:"dependencies"`
	ConflictsWith []string  `json:"conflicts_with"`
	Caveats       *string   `json:"caveats"`
	Deprecated    bool      `json:"deprecated"`
}

// Versions holds the formula version block.
type Versions struct {
	Stable string `json:"stable"`
}

// NameField decodes the catalog's "name" field, which is a plain string for
// formulae but an array of display names for casks. Arrays collapse to
// their first element.
type NameField string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NameField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return err
		}
		if len(names) > 0 {
			*n = NameField(names[0])
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = NameField(s)
	return nil
}

// ID returns the record's identity for the given kind: formulae are keyed
// by name, casks by token.
func (r Record) ID(kind Kind) string {
	if kind == KindCask {
		return r.Token
	}
	return string(r.Name)
}

// StableVersion returns the version string appropriate for the kind, or
// "unknown" when the catalog reported none.
func (r Record) StableVersion(kind Kind) string {
	v := r.Versions.Stable
	if kind == KindCask {
		v = r.Version
	}
	if v == "" {
		return "unknown"
	}
	return v
}
