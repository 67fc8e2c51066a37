package model

import (
	"fmt"
	"strings"
)

// RecipientSelf is the reserved recipient value meaning "deliver to the
// default channel". Rows inserted without an explicit recipient carry it
// as the column default.
const RecipientSelf = "self"

// MaxMessageLen is the hard per-message length limit of the messaging
// platform, in runes.
const MaxMessageLen = 2000

// Notification represents a single row of the push queue table.
//
// A notification is immutable once fetched: it is either delivered and
// deleted from the queue, or left in place to be re-fetched on the next
// poll cycle. Optional columns are represented as empty strings.
type Notification struct {
	ID        int64  `json:"id"`        // primary key, defines delivery order
	Network   string `json:"network"`   // originating chat network
	Window    string `json:"window"`    // channel/room name
	Type      string `json:"type"`      // event category
	User      string `json:"user"`      // originating user, may be empty
	Nick      string `json:"nick"`      // display nick, preferred over User
	Message   string `json:"message"`   // free-text body, may be empty
	Recipient string `json:"recipient"` // logical destination, empty or "self" = default
}

// Format renders the notification as platform-ready text.
//
// The result is "[network] window (type)\nauthor: body" with surrounding
// whitespace trimmed. The author is the nick if set, else the user, else
// "Unknown". Text longer than MaxMessageLen runes is cut to the first
// MaxMessageLen-3 runes with "..." appended; the returned flag reports
// that lossy truncation so the caller can log and count it. Format is
// pure and never fails.
func (n Notification) Format() (string, bool) {
	header := fmt.Sprintf("[%s] %s (%s)", n.Network, n.Window, n.Type)

	author := n.Nick
	if author == "" {
		author = n.User
	}
	if author == "" {
		author = "Unknown"
	}

	text := strings.TrimSpace(header + "\n" + author + ": " + n.Message)

	if r := []rune(text); len(r) > MaxMessageLen {
		return string(r[:MaxMessageLen-3]) + "...", true
	}

	return text, false
}
