package targets

import (
	"fmt"

	"github.com/marcelsud/webhook-messenger/webhook"
)

/* Target is a named webhook destination preset: a saved URL plus the
 * display identity to post under. Presets only pre-fill the draft;
 * every send still goes through the dispatcher's own URL check.
 */
type Target struct {
	Name       string
	WebhookURL string
	Username   string
	AvatarURL  string
}

// Validate checks if the target configuration is valid
func (t *Target) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if t.WebhookURL == "" {
		return fmt.Errorf("webhook_url cannot be empty for target %s", t.Name)
	}
	if !webhook.ValidURL(t.WebhookURL) {
		return fmt.Errorf("webhook_url must start with %s for target %s", webhook.URLPrefix, t.Name)
	}
	return nil
}
