package internal

// -- Request data -----------------------------------------------------------------------------------------------------

// Pagination describes a request that uses paging data to retrieve only a subset of the full result
type Pagination struct {
	// Position in the resultset to start the returned result at
	Offset uint
	// Number of items to return
	Limit uint
}

// Search describes a typical search request with a search term and pagination information
type Search struct {
	Pagination
	// The string to search for
	Search string
}

// TransactionListRequest describes a paged request for the transactions of a single transaction log
type TransactionListRequest struct {
	Pagination
	// The transaction log to list entries for
	LogID uint
}

// RosterMoveRequest describes a request to move a person between two roster categories of an event draft
type RosterMoveRequest struct {
	// The person to move
	PersonID uint `json:"personId"`
	// The category the person is expected to be in
	From string `json:"from"`
	// The category to move the person to
	To string `json:"to"`
}

// RosterEntryRequest describes a request to remove a person from a roster category of an event draft
type RosterEntryRequest struct {
	// The person to remove
	PersonID uint `json:"personId"`
	// The category the person is expected to be in
	Category string `json:"category"`
}
