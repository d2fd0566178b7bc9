// Package discover scans an image directory for A/B pair files.
//
// Filenames encode a pair index and a side marker, e.g. "pair 3 - B.png" or
// "Pair7a.jpg". Matching is case-insensitive and tolerant of surrounding
// text; only png/jpg/jpeg files are considered.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Pair holds the two image files of one A/B comparison.
type Pair struct {
	ID    int
	SideA string // path to the A image; "" when the side was not found
	SideB string // path to the B image; "" when the side was not found
}

// Eligible reports whether both sides are present. Only eligible pairs are
// judged; the rest are excluded from the task sequence.
func (p Pair) Eligible() bool {
	return p.SideA != "" && p.SideB != ""
}

var filePattern = regexp.MustCompile(`(?i)^.*pair\s*(\d+).*([ab])\.(png|jpg|jpeg)$`)

// Scan reads dir and groups matching filenames into pairs keyed by id.
// A later file for an already-seen side wins, matching directory order.
func Scan(dir string) (map[int]Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discover: read image dir %q: %w", dir, err)
	}

	pairs := make(map[int]Pair)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := filePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		p := pairs[id]
		p.ID = id
		path := filepath.Join(dir, e.Name())
		if strings.EqualFold(m[2], "a") {
			p.SideA = path
		} else {
			p.SideB = path
		}
		pairs[id] = p
	}
	return pairs, nil
}

// IDs returns all pair ids in ascending order, eligible or not.
func IDs(pairs map[int]Pair) []int {
	ids := make([]int, 0, len(pairs))
	for id := range pairs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
