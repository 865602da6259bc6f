package engine

import (
	"sort"

	"unify/internal/record"
)

// Merge deduplicates records across sources by identity key and
// resolves field conflicts by source priority: for each field, the
// highest-priority contributing source that defines it wins, falling
// down the priority list for fields the top source omits.
//
// The output is deterministic for a given input multiset: exactly one
// unified record per distinct identity key, ordered by key ascending.
// Merging the same record twice therefore changes nothing.
func Merge(results []SourceResult, priority []record.Tag) []record.UnifiedRecord {
	if len(priority) == 0 {
		priority = record.DefaultPriority
	}
	rank := make(map[record.Tag]int, len(priority))
	for i, tag := range priority {
		rank[tag] = i
	}
	// Unknown tags sort after every configured one.
	rankOf := func(tag record.Tag) int {
		if r, ok := rank[tag]; ok {
			return r
		}
		return len(priority)
	}

	groups := make(map[string][]record.SourceRecord)
	keys := make(map[string]record.Key)
	for _, res := range results {
		for _, r := range res.Records {
			key := r.IdentityKey()
			groups[key.String()] = append(groups[key.String()], r)
			keys[key.String()] = key
		}
	}

	unified := make([]record.UnifiedRecord, 0, len(groups))
	for ks, members := range groups {
		// Stable priority order within the group; ties keep input
		// order, which is already deterministic per source.
		sort.SliceStable(members, func(i, j int) bool {
			return rankOf(members[i].Source) < rankOf(members[j].Source)
		})

		fields := make(record.Fields)
		var tags []record.Tag
		seen := make(map[record.Tag]bool)
		for _, m := range members {
			if !seen[m.Source] {
				seen[m.Source] = true
				tags = append(tags, m.Source)
			}
			for f, v := range m.Fields {
				if v == "" {
					continue
				}
				if _, ok := fields[f]; !ok {
					fields[f] = v
				}
			}
		}
		// The api-path stamp is routing metadata, not an entity field.
		delete(fields, record.FieldAPIPath)

		unified = append(unified, record.UnifiedRecord{
			Key:     keys[ks],
			Fields:  fields,
			Sources: tags,
		})
	}

	sort.Slice(unified, func(i, j int) bool {
		return unified[i].Key.Less(unified[j].Key)
	})
	return unified
}
