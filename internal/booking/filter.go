package booking

import "strings"

// Filter returns the bookings matching a free-text query and a status.
// The query is matched case-insensitively against guest name, email and
// reference. An empty status or "all" matches every status.
func Filter(bookings []*Booking, query string, status Status) []*Booking {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []*Booking
	for _, b := range bookings {
		if status != "" && status != "all" && b.Status != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(b.GuestName), query) &&
			!strings.Contains(strings.ToLower(b.GuestEmail), query) &&
			!strings.Contains(strings.ToLower(b.Reference), query) {
			continue
		}
		out = append(out, b)
	}
	return out
}
