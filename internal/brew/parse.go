package brew

import "strings"

// PackageInfo is the subset of package metadata recoverable from brew info
// text output. It is the degraded-path counterpart of a catalog record.
type PackageInfo struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	Caveats     string

	// InstalledVersion is the locally installed version, taken from the
	// Cellar or Caskroom path line; empty when the package is not installed.
	InstalledVersion string
}

// ParseInfo extracts structured fields from brew info output:
//
//	==> wget: stable 1.24.5 (bottled), HEAD
//	Internet file retriever
//	https://www.gnu.org/software/wget/
//	...
//	==> Caveats
//	<free text until the next ==> header>
//
// The version is the second whitespace field after the "==> name:" colon,
// the first non-header non-URL line becomes the description, the first
// https:// line the homepage, and the trailing path component of a
// Cellar/Caskroom line the installed version.
func ParseInfo(name, raw string) PackageInfo {
	info := PackageInfo{Name: name, Version: "unknown"}

	header := "==> " + name + ": "
	inCaveats := false
	var caveats []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, header):
			rest := strings.TrimPrefix(line, header)
			if fields := strings.Fields(rest); len(fields) >= 2 {
				info.Version = strings.TrimSuffix(fields[1], ",")
			}
			inCaveats = false
		case strings.HasPrefix(line, "==> Caveats"):
			inCaveats = true
		case strings.HasPrefix(line, "==>"):
			inCaveats = false
		case inCaveats:
			caveats = append(caveats, line)
		case strings.HasPrefix(line, "https://"):
			if info.Homepage == "" {
				info.Homepage = line
			}
		case strings.Contains(line, "/Cellar/"+name+"/") || strings.Contains(line, "/Caskroom/"+name+"/"):
			if info.InstalledVersion == "" {
				path := strings.Fields(line)[0]
				info.InstalledVersion = path[strings.LastIndexByte(path, '/')+1:]
			}
		case info.Description == "":
			info.Description = line
		}
	}

	info.Caveats = strings.Join(caveats, "\n")
	return info
}
