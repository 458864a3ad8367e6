package sync

import "sort"

// Merge overlays local rows onto remote rows, last-writer-wins per key.
// Rows sharing a MergeKey form one group (a multi-night reservation is
// several rows under one bookingId); a local group replaces the remote
// group wholesale so a reservation is never half-replaced.
//
// Keys present only remotely are kept, which is what lets two writers
// appending different reservations converge to the union. The output is
// deterministic: remote document order first, then new local keys in
// ascending key order.
func Merge[R Row](remote, local []R) []R {
	groups := make(map[string][]R, len(remote)+len(local))
	var order []string

	for _, row := range remote {
		key := row.MergeKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	var added []string
	replaced := make(map[string]bool, len(local))
	for _, row := range local {
		key := row.MergeKey()
		if _, ok := groups[key]; ok && !replaced[key] {
			// Local wins: drop the remote group before appending ours.
			groups[key] = nil
		} else if !ok && !replaced[key] {
			added = append(added, key)
		}
		replaced[key] = true
		groups[key] = append(groups[key], row)
	}
	sort.Strings(added)

	merged := make([]R, 0, len(remote)+len(local))
	for _, key := range order {
		merged = append(merged, groups[key]...)
	}
	for _, key := range added {
		merged = append(merged, groups[key]...)
	}
	return merged
}
