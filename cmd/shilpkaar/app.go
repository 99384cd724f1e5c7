package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shilpkaar/marketplace-api/internal/client"
	"github.com/shilpkaar/marketplace-api/internal/favorites"
	"github.com/shilpkaar/marketplace-api/internal/session"
	"github.com/shilpkaar/marketplace-api/internal/sysutil"
)

// app is what a command works with: the REST client, the session it
// authenticates with, and where the token is stored.
type app struct {
	api       *client.Client
	sess      *session.Session
	tokenPath string
}

func newApp() (*app, error) {
	path, err := sysutil.TokenPath(tokenFile)
	if err != nil {
		return nil, err
	}
	sess := session.New()
	api, err := client.New(clientCfg.APIURL,
		client.WithTimeout(clientCfg.Timeout),
		client.WithToken(sess.Token),
		client.WithUserAgent("shilpkaar-cli"),
	)
	if err != nil {
		return nil, err
	}
	return &app{api: api, sess: sess, tokenPath: path}, nil
}

// storedToken is the saved token, falling back to SHILPKAAR_TOKEN.
func (a *app) storedToken() (string, error) {
	tok, err := sysutil.ReadToken(a.tokenPath)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return sysutil.FirstNonEmpty(tok, clientCfg.Token), nil
}

// restore resolves the session from the stored token. A rejected token is
// removed so the next command does not retry it.
func (a *app) restore(ctx context.Context) (client.User, error) {
	tok, err := a.storedToken()
	if err != nil {
		return client.User{}, err
	}
	u, err := a.sess.Restore(ctx, a.api, tok)
	switch {
	case errors.Is(err, session.ErrNoToken):
		return u, errors.New(`not logged in; run "shilpkaar login"`)
	case errors.Is(err, session.ErrTokenRejected):
		_ = sysutil.WriteToken(a.tokenPath, "")
		return u, errors.New(`session expired; run "shilpkaar login" again`)
	case err != nil:
		return u, fmt.Errorf("resolve session: %w", err)
	}
	logger.Debug().Str("user_id", u.ID).Msg("session restored")
	return u, nil
}

// signedIn builds an app, attaches a favorites store to its session and
// restores it. Restoring signs the session in, which makes the store load
// the user's favorites.
func signedIn(cmd *cobra.Command) (*app, *favorites.Store, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}
	st := favorites.New(a.api, a.sess,
		favorites.WithLogger(logger),
		favorites.WithTimeout(clientCfg.Timeout),
		favorites.WithPageSize(clientCfg.PageSize),
	)
	if _, err := a.restore(cmd.Context()); err != nil {
		st.Close()
		return nil, nil, err
	}
	return a, st, nil
}
