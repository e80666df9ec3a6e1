package chi

import (
	"net/http"

	"github.com/marcelsud/webhook-messenger/targets"
)

// targetResponse represents a destination preset in the API
type targetResponse struct {
	Name       string `json:"name"`
	WebhookURL string `json:"webhook_url"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatar_url"`
}

// getTargets handles GET /v1/targets
func getTargets(loader *targets.Loader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := []targetResponse{}
		if loader != nil {
			for _, t := range loader.List() {
				result = append(result, targetResponse{
					Name:       t.Name,
					WebhookURL: t.WebhookURL,
					Username:   t.Username,
					AvatarURL:  t.AvatarURL,
				})
			}
		}
		respondJSON(w, http.StatusOK, result)
	})
}
