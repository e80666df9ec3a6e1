package message

import "github.com/marcelsud/webhook-messenger/message/embed"

/* Draft is the in-progress user input. It is never persisted; the
 * payload builder consumes it at submit time.
 */
type Draft struct {
	WebhookURL string
	Username   string
	AvatarURL  string
	Content    string
}

// DefaultUsername is the display name used when the draft leaves it blank.
const DefaultUsername = "Webhook Messenger"

/* Payload is the wire object POSTed to the webhook endpoint.
 * Content carries the raw markup source, not display HTML: the
 * receiving platform renders its own markup. Embeds is omitted from
 * the JSON entirely when nil.
 */
type Payload struct {
	Username  string        `json:"username"`
	AvatarURL string        `json:"avatar_url"`
	Content   string        `json:"content"`
	Embeds    []embed.Embed `json:"embeds,omitempty"`
}

// BuildPayload combines the draft, an optional embed and an optional
// image URL into the outbound payload. An attached image travels as a
// trailing URL line appended to content, not as a binary attachment.
// Content non-emptiness is the caller's precondition, not checked here.
func BuildPayload(draft Draft, emb *embed.Embed, imageURL string) Payload {
	p := Payload{
		Username:  draft.Username,
		AvatarURL: draft.AvatarURL,
		Content:   draft.Content,
	}
	if emb != nil {
		p.Embeds = []embed.Embed{*emb}
	}
	if imageURL != "" {
		p.Content += "\n" + imageURL
	}
	return p
}
