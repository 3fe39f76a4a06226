package client

import (
	"context"

	"github.com/dmitrijs2005/gatepass/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	ValidateToken(ctx context.Context) (*models.ValidateTokenResponse, error)

	GetPass(ctx context.Context, passNo string) (*models.PassRecord, error)
	CreatePass(ctx context.Context, req models.CreatePassRequest) error
	UpdatePass(ctx context.Context, passNo string, req models.UpdatePassRequest) error
	UpdateItemsOut(ctx context.Context, passNo string, req models.ItemOutRequest) error
	DeletePass(ctx context.Context, passNo string) error

	Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error)
	DownloadSearch(ctx context.Context, q models.SearchQuery) ([]byte, error)

	CreateUser(ctx context.Context, u models.NewUser) error

	ListProjects(ctx context.Context) ([]string, error)
	ProjectItems(ctx context.Context, project string) ([]models.CatalogItem, error)
	AddProject(ctx context.Context, project string) error
	AddProjectItem(ctx context.Context, project string, item models.CatalogItem) error
	EditProjectItem(ctx context.Context, project string, from, to models.CatalogItem) error
	DeleteProjectItem(ctx context.Context, project string, item models.CatalogItem) error
}

// HeaderSource supplies the per-request auth headers.
type HeaderSource interface {
	AuthHeaders() map[string]string
}
