package deck

import "github.com/Masterminds/semver/v3"

// VersionNewer reports whether candidate is a strictly newer version than
// current. Both are compared as semver when they parse; otherwise the
// comparison degrades to lexical ordering, which is wrong less often than
// refusing to answer.
func VersionNewer(current, candidate string) bool {
	cv, err1 := semver.NewVersion(current)
	nv, err2 := semver.NewVersion(candidate)
	if err1 == nil && err2 == nil {
		return nv.GreaterThan(cv)
	}
	return candidate > current
}
