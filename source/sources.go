package source

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// DefaultPreference is the order in which quality labels are chosen when none is requested.
var DefaultPreference = []string{"1080p", "720p"}

// Sources maps a quality label (e.g. "720p") to a playable stream URL.
type Sources map[string]string

// Has reports whether the label is a known quality variant.
func (s Sources) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Labels returns the known quality labels, highest resolution first.
func (s Sources) Labels() []string {
	labels := lo.Keys(s)
	sort.SliceStable(labels, func(i, j int) bool {
		ri, rj := resolution(labels[i]), resolution(labels[j])
		if ri != rj {
			return ri > rj
		}
		return labels[i] < labels[j]
	})
	return labels
}

// Preferred selects the default quality: the first label of preference that is available,
// otherwise the first label in lexical order so the choice is deterministic.
func (s Sources) Preferred(preference []string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}

	for _, label := range preference {
		if s.Has(label) {
			return label, true
		}
	}

	keys := lo.Keys(s)
	sort.Strings(keys)
	return keys[0], true
}

// resolution extracts the vertical resolution from labels such as "1080p" or "4k".
func resolution(label string) int {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasSuffix(l, "p"):
		if n, err := strconv.Atoi(strings.TrimSuffix(l, "p")); err == nil {
			return n
		}
	case strings.HasSuffix(l, "k"):
		if n, err := strconv.Atoi(strings.TrimSuffix(l, "k")); err == nil {
			return n * 540
		}
	}
	return 0
}
