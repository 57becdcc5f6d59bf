package domain

// Apartment is a rentable unit with an optional external calendar feed
type Apartment struct {
	Key     string // stable key used in URLs and the snapshot map, e.g. "apartment1"
	ID      string
	Name    string
	FeedURL string
}

// HasFeed returns true if the apartment imports an external calendar
func (a *Apartment) HasFeed() bool {
	return a.FeedURL != ""
}

// Apartments is the configured list of apartments in display order
type Apartments []Apartment

// ByKey returns the apartment with the given key
func (a Apartments) ByKey(key string) (*Apartment, bool) {
	for i := range a {
		if a[i].Key == key {
			return &a[i], true
		}
	}
	return nil, false
}

// ByID returns the apartment with the given id
func (a Apartments) ByID(id string) (*Apartment, bool) {
	for i := range a {
		if a[i].ID == id {
			return &a[i], true
		}
	}
	return nil, false
}
