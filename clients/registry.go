package clients

import (
	"context"

	"github.com/pkg/errors"
	"github.com/widgetlabs/widget-api/internal/secrets"
)

// CreateProperties are the caller-supplied fields for a new client
// registration. ClientID and ClientSecret are normally left blank and filled
// in by the registry.
type CreateProperties struct {
	Name         string
	ClientID     string
	ClientSecret string
}

// Registry manages OAuth2 client registrations. All operations except
// GetByClientID are scoped to the owning user.
type Registry struct {
	repo              Repo
	clientIDBytes     int
	clientSecretBytes int
}

// NewRegistry creates a Registry. The byte lengths control the entropy of
// generated client credentials.
func NewRegistry(repo Repo, clientIDBytes, clientSecretBytes int) (*Registry, error) {
	if repo == nil {
		return nil, errors.New("[NewRegistry] repo is required")
	}
	if clientIDBytes <= 0 || clientSecretBytes <= 0 {
		return nil, errors.New("[NewRegistry] credential byte lengths must be positive")
	}
	return &Registry{
		repo:              repo,
		clientIDBytes:     clientIDBytes,
		clientSecretBytes: clientSecretBytes,
	}, nil
}

// Create registers a new client owned by userID, generating client_id and
// client_secret when absent. A (name, user) pair that already exists fails
// with DuplicateClientErr; the repo-level unique constraint backs this check.
func (r *Registry) Create(ctx context.Context, props CreateProperties, userID int64) (*Client, error) {
	name := props.Name
	if name == "" {
		name = DefaultName
	}

	exists, err := r.repo.ExistsByName(ctx, userID, name)
	if err != nil {
		return nil, errors.Wrap(err, "[Registry.Create] ExistsByName")
	}
	if exists {
		return nil, DuplicateClientErr
	}

	client := &Client{
		Name:         name,
		ClientID:     props.ClientID,
		ClientSecret: props.ClientSecret,
		UserID:       userID,
	}
	if client.ClientID == "" {
		client.ClientID = secrets.Generate(r.clientIDBytes)
	}
	if client.ClientSecret == "" {
		client.ClientSecret = secrets.Generate(r.clientSecretBytes)
	}

	created, err := r.repo.Insert(ctx, client)
	if err != nil {
		if errors.Is(err, DuplicateClientErr) {
			return nil, DuplicateClientErr
		}
		return nil, errors.Wrap(err, "[Registry.Create] Insert")
	}
	return created, nil
}

// GetByClientID looks a client up globally by its client_id. Used during
// token exchange before the caller's identity is known.
func (r *Registry) GetByClientID(ctx context.Context, clientID string) (*Client, error) {
	return r.repo.GetByClientID(ctx, clientID)
}

// GetForUser looks a client up within the owner's scope. A client belonging
// to another user is reported as not found.
func (r *Registry) GetForUser(ctx context.Context, userID int64, clientID string) (*Client, error) {
	return r.repo.GetForUser(ctx, userID, clientID)
}

// ListForUser returns the user's clients in a stable order.
func (r *Registry) ListForUser(ctx context.Context, userID int64) ([]*Client, error) {
	return r.repo.ListForUser(ctx, userID)
}

// DeleteForUser deletes the client if owned by the user. Returns false when
// the client does not exist or belongs to someone else.
func (r *Registry) DeleteForUser(ctx context.Context, userID int64, clientID string) (bool, error) {
	return r.repo.DeleteForUser(ctx, userID, clientID)
}

// ExistsByName reports whether the user already registered a client under
// this name.
func (r *Registry) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	return r.repo.ExistsByName(ctx, userID, name)
}
