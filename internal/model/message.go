package model

// Message is a single inbox message as returned by the mail provider.
// Date is the raw header value, not a parsed timestamp. Messages are
// fetched fresh per request and never persisted.
type Message struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet,omitempty"`
	Body    string `json:"body,omitempty"`
}

// CategorizedMessage is a Message with the classification attached by the
// summarization pipeline.
type CategorizedMessage struct {
	Message
	AISummary  string `json:"ai_summary"`
	Importance string `json:"importance,omitempty"`
}

const (
	CategoryWork        = "work"
	CategoryPersonal    = "personal"
	CategoryNewsletters = "newsletters"
	CategoryImportant   = "important"
	CategoryOther       = "other"
)

// Categories is the closed set of classification buckets.
var Categories = []string{
	CategoryWork,
	CategoryPersonal,
	CategoryNewsletters,
	CategoryImportant,
	CategoryOther,
}

func KnownCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
