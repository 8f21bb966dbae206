package firebase

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/cirqle/cirqle-api/pkg/config"
)

// NewAuthClient initialises the Firebase Admin SDK and returns its Auth client.
// Without a credentials file the SDK falls back to application default credentials.
func NewAuthClient(ctx context.Context, cfg config.AuthConfig) (*auth.Client, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	var appCfg *fb.Config
	if cfg.FirebaseProjectID != "" {
		appCfg = &fb.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := fb.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}
	return client, nil
}
