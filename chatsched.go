package chatsched

var (
	VERSION = "dev"
	COMMIT  = "unknown"
)
