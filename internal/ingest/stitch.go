package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// SIDER identifies compounds with STITCH-style IDs: 'CID' plus a zero-padded
// PubChem CID. Newer releases prefix the flat/stereo variant with an extra
// letter (CIDs/CIDm).
var stitchIDPattern = regexp.MustCompile(`^CID[sm]?0*([1-9]\d*|0)$`)

// ParsePubchemCID extracts the integer PubChem CID from a STITCH ID.
// Returns false when the value does not follow the STITCH format.
func ParsePubchemCID(stitchID string) (int64, bool) {
	m := stitchIDPattern.FindStringSubmatch(strings.TrimSpace(stitchID))
	if m == nil {
		return 0, false
	}
	cid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return cid, true
}
