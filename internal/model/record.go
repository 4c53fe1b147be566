package model

// Record is the domain model for a todo entry.
// ID is assigned by the store and survives deletes of other records;
// the record's position in the store is its index.
type Record struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}
