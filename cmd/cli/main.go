package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/marcelsud/webhook-messenger/config"
	"github.com/marcelsud/webhook-messenger/message"
	"github.com/marcelsud/webhook-messenger/targets"
	"github.com/marcelsud/webhook-messenger/webhook"
)

func main() {
	var (
		targetName = flag.String("target", "", "named target from the targets file")
		url        = flag.String("url", "", "Discord webhook URL")
		username   = flag.String("username", "", "display name for the message")
		avatarURL  = flag.String("avatar", "", "avatar URL for the message")
		content    = flag.String("content", "", "message content")
		imageURL   = flag.String("image", "", "image URL appended to the message")
	)
	flag.Parse()

	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx := context.Background()

	draft := message.Draft{
		WebhookURL: *url,
		Username:   *username,
		AvatarURL:  *avatarURL,
		Content:    *content,
	}

	if *targetName != "" {
		if cfg.TargetsFile == "" {
			fmt.Println("TARGETS_FILE is not configured")
			return
		}
		loader := targets.NewLoader()
		if err := loader.Load(cfg.TargetsFile); err != nil {
			fmt.Println(err)
			return
		}
		target, err := loader.Get(*targetName)
		if err != nil {
			fmt.Println(err)
			return
		}
		draft.WebhookURL = target.WebhookURL
		if draft.Username == "" {
			draft.Username = target.Username
		}
		if draft.AvatarURL == "" {
			draft.AvatarURL = target.AvatarURL
		}
	}

	if draft.WebhookURL == "" {
		fmt.Println("a webhook URL is required: pass -url or -target")
		return
	}
	if draft.Content == "" {
		fmt.Println("message content is required: pass -content")
		return
	}
	if draft.Username == "" {
		draft.Username = message.DefaultUsername
	}

	client := webhook.NewClient(cfg.WebhookTimeout())
	payload := message.BuildPayload(draft, nil, *imageURL)
	if err := client.Send(ctx, draft.WebhookURL, payload); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("message sent")
}
