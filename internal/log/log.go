package log

const (
	// FldFile is the name of the log field for storing file name information
	FldFile = "file"
	// FldPath is the name of the log field for storing path name information
	FldPath = "path"
	// FldTransport is the name of the log field for storing a transport name
	FldTransport = "transport"
	// FldSession is the name of the log field for storing the session ID
	FldSession = "session"
	// FldUser is the name of the log field for storing the ID of the currently active user
	FldUser = "user"
	// FldVersion is the version number of the application
	FldVersion = "ver"
	// FldID is the ID of an entity used in the log entry
	FldID = "id"
	// FldDraft is the token of the event draft used in the log entry
	FldDraft = "draft"
	// FldEvent is the ID of the event used in the log entry
	FldEvent = "event"
	// FldPerson is the ID of the person used in the log entry
	FldPerson = "person"
	// FldLog is the ID of a transaction log used in the log entry
	FldLog = "txlog"
	// FldSearch is a search term used in a serach
	FldSearch = "search"
	// FldOffset is the requested offset value in a search
	FldOffset = "offset"
	// FldLimit is the requested result limit in a search
	FldLimit = "limit"
)
