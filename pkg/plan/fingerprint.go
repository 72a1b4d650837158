package plan

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zeebo/xxh3"
)

// fingerprint hashes the canonical form of the plan content. Units are
// expected sorted by ID.
func fingerprint(units []Unit, assignment Assignment, elections []Election) string {
	h := xxh3.New()

	es := append([]Election(nil), elections...)
	sort.Slice(es, func(i, j int) bool { return es[i].Name < es[j].Name })
	for _, e := range es {
		write(h, "e", e.Name)
		for _, party := range e.Parties {
			write(h, "p", party)
		}
	}

	for _, u := range units {
		write(h, "u", u.ID, strconv.Itoa(int(assignment[u.ID])))
		for _, k := range sortedKeys(u.Attributes) {
			write(h, "a", k, formatFloat(u.Attributes[k]))
		}
		for _, e := range sortedKeys(u.Votes) {
			parties := u.Votes[e]
			for _, party := range sortedKeys(parties) {
				write(h, "v", e, party, formatFloat(parties[party]))
			}
		}
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func write(h *xxh3.Hasher, parts ...string) {
	for _, s := range parts {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{'\n'})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
