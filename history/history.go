package history

import (
	"time"

	"github.com/marcelsud/webhook-messenger/message/embed"
)

/* Entries use value semantics: they represent data, not behavior.
 * JSON tags define the persisted layout under history:<identityId>
 * and scheduled:<identityId>.
 */

// Entry is one successfully sent message, immutable once created.
type Entry struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	Username   string       `json:"username"`
	WebhookURL string       `json:"webhookUrl"`
	Timestamp  time.Time    `json:"timestamp"`
	Embed      *embed.Embed `json:"embed,omitempty"`
}

// ScheduledEntry is a message persisted for later delivery. Nothing in
// this service fires it; dispatch is an external collaborator.
type ScheduledEntry struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Username     string       `json:"username"`
	WebhookURL   string       `json:"webhookUrl"`
	ScheduledFor time.Time    `json:"scheduledFor"`
	Embed        *embed.Embed `json:"embed,omitempty"`
}

// MaxEntries caps retained history per identity; the oldest entries
// are evicted on overflow.
const MaxEntries = 50
