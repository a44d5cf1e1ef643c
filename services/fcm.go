package services

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// SendPushNotification delivers one message to a single device token.
func SendPushNotification(app *firebase.App, token, title, body string, data map[string]string) error {
	ctx := context.Background()

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	message := &messaging.Message{
		Data: data,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
	}

	if _, err := client.Send(ctx, message); err != nil {
		return fmt.Errorf("error sending message: %v", err)
	}
	return nil
}

// SendMulticastNotification delivers one message to many device tokens,
// batching at the FCM limit of 500 tokens per request.
func SendMulticastNotification(app *firebase.App, tokens []string, title, body string, data map[string]string) error {
	ctx := context.Background()

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	const batchSize = 500
	for i := 0; i < len(tokens); i += batchSize {
		end := i + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		batch := tokens[i:end]
		message := &messaging.MulticastMessage{
			Data: data,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Tokens: batch,
		}

		response, err := client.SendEachForMulticast(ctx, message)
		if err != nil {
			log.Printf("Error sending batch %d-%d: %v", i, end-1, err)
			continue
		}

		if response.FailureCount > 0 {
			for idx, resp := range response.Responses {
				if !resp.Success {
					log.Printf("Failed to send to token %s: %v", batch[idx], resp.Error)
				}
			}
		}
	}

	return nil
}
