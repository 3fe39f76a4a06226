package services

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
)

// fakeClient implements client.Client for service tests. Calls are recorded
// by name in order.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	LoginResp *models.LoginResponse
	LoginErr  error
	LogoutErr error

	ValidateErr error

	Passes    map[string]models.PassRecord
	GetErr    error
	CreateErr error
	UpdateErr error
	OutErr    error
	DeleteErr error

	LastCreate *models.CreatePassRequest
	LastUpdate *models.UpdatePassRequest
	LastOut    *models.ItemOutRequest

	SearchResp  *models.SearchResult
	SearchErr   error
	Download    []byte
	LastQuery   models.SearchQuery
	CreateUserE error
	LastUser    models.NewUser

	Projects     []string
	Items        []models.CatalogItem
	CatalogErr   error
	LastProject  string
	LastCatalogI models.CatalogItem

	// block, when set, is waited on inside CreatePass.
	block chan struct{}
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func notFound() error {
	return &client.APIError{StatusCode: http.StatusNotFound, Message: "Pass not found"}
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	f.record("Login")
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.record("Logout")
	return f.LogoutErr
}

func (f *fakeClient) ValidateToken(ctx context.Context) (*models.ValidateTokenResponse, error) {
	f.record("ValidateToken")
	if f.ValidateErr != nil {
		return nil, f.ValidateErr
	}
	return &models.ValidateTokenResponse{Role: "user"}, nil
}

func (f *fakeClient) GetPass(ctx context.Context, passNo string) (*models.PassRecord, error) {
	f.record("GetPass")
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	rec, ok := f.Passes[passNo]
	if !ok {
		return nil, notFound()
	}
	return &rec, nil
}

func (f *fakeClient) CreatePass(ctx context.Context, req models.CreatePassRequest) error {
	f.record("CreatePass")
	if f.block != nil {
		<-f.block
	}
	f.LastCreate = &req
	return f.CreateErr
}

func (f *fakeClient) UpdatePass(ctx context.Context, passNo string, req models.UpdatePassRequest) error {
	f.record("UpdatePass")
	f.LastUpdate = &req
	return f.UpdateErr
}

func (f *fakeClient) UpdateItemsOut(ctx context.Context, passNo string, req models.ItemOutRequest) error {
	f.record("UpdateItemsOut")
	f.LastOut = &req
	return f.OutErr
}

func (f *fakeClient) DeletePass(ctx context.Context, passNo string) error {
	f.record("DeletePass")
	return f.DeleteErr
}

func (f *fakeClient) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	f.record("Search")
	f.LastQuery = q
	return f.SearchResp, f.SearchErr
}

func (f *fakeClient) DownloadSearch(ctx context.Context, q models.SearchQuery) ([]byte, error) {
	f.record("DownloadSearch")
	f.LastQuery = q
	return f.Download, f.SearchErr
}

func (f *fakeClient) CreateUser(ctx context.Context, u models.NewUser) error {
	f.record("CreateUser")
	f.LastUser = u
	return f.CreateUserE
}

func (f *fakeClient) ListProjects(ctx context.Context) ([]string, error) {
	f.record("ListProjects")
	return f.Projects, f.CatalogErr
}

func (f *fakeClient) ProjectItems(ctx context.Context, project string) ([]models.CatalogItem, error) {
	f.record("ProjectItems")
	f.LastProject = project
	return f.Items, f.CatalogErr
}

func (f *fakeClient) AddProject(ctx context.Context, project string) error {
	f.record("AddProject")
	f.LastProject = project
	return f.CatalogErr
}

func (f *fakeClient) AddProjectItem(ctx context.Context, project string, item models.CatalogItem) error {
	f.record("AddProjectItem")
	f.LastProject, f.LastCatalogI = project, item
	return f.CatalogErr
}

func (f *fakeClient) EditProjectItem(ctx context.Context, project string, from, to models.CatalogItem) error {
	f.record("EditProjectItem")
	f.LastProject, f.LastCatalogI = project, to
	return f.CatalogErr
}

func (f *fakeClient) DeleteProjectItem(ctx context.Context, project string, item models.CatalogItem) error {
	f.record("DeleteProjectItem")
	f.LastProject, f.LastCatalogI = project, item
	return f.CatalogErr
}

var _ client.Client = (*fakeClient)(nil)
