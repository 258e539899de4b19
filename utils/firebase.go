// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"beautybook/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// NewMessagingClient initializes the Firebase App and returns its Messaging client.
func NewMessagingClient(ctx context.Context) (*messaging.Client, error) {
	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return client, nil
}
