package webhook

import (
	"context"
	"strings"

	"github.com/marcelsud/webhook-messenger/message"
)

/* This package talks to the one endpoint shape the system targets:
 * the Discord incoming-webhook execute URL. Validation and delivery
 * are independent operations; a caller may send without validating.
 */

// URLPrefix is the namespace every destination URL must live under.
const URLPrefix = "https://discord.com/api/webhooks/"

// ValidURL reports whether url has the required incoming-webhook shape.
// This is a pure string check; no network call is made.
func ValidURL(url string) bool {
	return strings.HasPrefix(url, URLPrefix)
}

// ChannelInfo is the advisory metadata a successful validation returns.
type ChannelInfo struct {
	Name    string
	GuildID string
}

// UseCase defines the delivery operations for webhook messages
type UseCase interface {
	/* Validate issues a read-only metadata request to the webhook URL.
	 * The result is advisory only and must never gate Send.
	 */
	Validate(ctx context.Context, url string) (ChannelInfo, error)
	/* Send serializes the payload as JSON and POSTs it once.
	 * Delivery is fire-and-once: no retry.
	 */
	Send(ctx context.Context, url string, payload message.Payload) error
}
