package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/logging"
)

var (
	ErrProjectRequired = errors.New("project name is required")
	ErrItemUnchanged   = errors.New("catalog item is unchanged")
)

// CatalogService reads and maintains the per-project list of known parts.
type CatalogService interface {
	Projects(ctx context.Context) ([]string, error)
	Catalog(ctx context.Context, project string) (models.Catalog, error)
	AddProject(ctx context.Context, project string) error
	AddItem(ctx context.Context, project string, item models.CatalogItem) error
	EditItem(ctx context.Context, project string, from, to models.CatalogItem) error
	DeleteItem(ctx context.Context, project string, item models.CatalogItem) error
}

type catalogService struct {
	client client.Client
	log    logging.Logger
}

func NewCatalogService(c client.Client, log logging.Logger) CatalogService {
	return &catalogService{client: c, log: log}
}

func (s *catalogService) Projects(ctx context.Context) ([]string, error) {
	return s.client.ListProjects(ctx)
}

func (s *catalogService) Catalog(ctx context.Context, project string) (models.Catalog, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return models.Catalog{}, ErrProjectRequired
	}
	items, err := s.client.ProjectItems(ctx, project)
	if err != nil {
		return models.Catalog{}, err
	}
	return models.Catalog{Project: project, Items: items}, nil
}

func (s *catalogService) AddProject(ctx context.Context, project string) error {
	project = strings.TrimSpace(project)
	if project == "" {
		return ErrProjectRequired
	}
	if err := s.client.AddProject(ctx, project); err != nil {
		return err
	}
	s.log.Info(ctx, "project added", "project", project)
	return nil
}

func checkItem(project string, item models.CatalogItem) error {
	if project == "" {
		return ErrProjectRequired
	}
	if item.ItemType == "" || item.ItemName == "" || item.PartNo == "" {
		return errors.New("item type, item name and part number are required")
	}
	return nil
}

func (s *catalogService) AddItem(ctx context.Context, project string, item models.CatalogItem) error {
	project = strings.TrimSpace(project)
	if err := checkItem(project, item); err != nil {
		return err
	}
	if err := s.client.AddProjectItem(ctx, project, item); err != nil {
		return err
	}
	s.log.Info(ctx, "catalog item added", "project", project, "part_no", item.PartNo)
	return nil
}

// EditItem replaces from with to in the project's catalog.
func (s *catalogService) EditItem(ctx context.Context, project string, from, to models.CatalogItem) error {
	project = strings.TrimSpace(project)
	if err := checkItem(project, from); err != nil {
		return err
	}
	if err := checkItem(project, to); err != nil {
		return err
	}
	if from == to {
		return ErrItemUnchanged
	}
	if err := s.client.EditProjectItem(ctx, project, from, to); err != nil {
		return err
	}
	s.log.Info(ctx, "catalog item edited", "project", project, "part_no", from.PartNo, "new_part_no", to.PartNo)
	return nil
}

func (s *catalogService) DeleteItem(ctx context.Context, project string, item models.CatalogItem) error {
	project = strings.TrimSpace(project)
	if err := checkItem(project, item); err != nil {
		return err
	}
	if err := s.client.DeleteProjectItem(ctx, project, item); err != nil {
		return err
	}
	s.log.Info(ctx, "catalog item deleted", "project", project, "part_no", item.PartNo)
	return nil
}
