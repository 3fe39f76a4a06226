package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gatepass/internal/client/client"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/filex"
	"github.com/dmitrijs2005/gatepass/internal/logging"
)

// DownloadFileName is the name search exports are saved under.
const DownloadFileName = "search_results.csv"

type SearchService interface {
	Run(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error)
	// Download saves the export for q and returns the written path and size.
	Download(ctx context.Context, q models.SearchQuery) (string, int, error)
}

type searchService struct {
	client      client.Client
	downloadDir string
	log         logging.Logger
}

func NewSearchService(c client.Client, downloadDir string, log logging.Logger) SearchService {
	return &searchService{client: c, downloadDir: downloadDir, log: log}
}

func checkQuery(q models.SearchQuery) error {
	if q.Type == "" {
		return errors.New("search type is required")
	}
	return nil
}

func (s *searchService) Run(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}
	res, err := s.client.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "search done", "type", q.Type, "count", res.Count)
	return res, nil
}

func (s *searchService) Download(ctx context.Context, q models.SearchQuery) (string, int, error) {
	if err := checkQuery(q); err != nil {
		return "", 0, err
	}
	data, err := s.client.DownloadSearch(ctx, q)
	if err != nil {
		return "", 0, err
	}
	path, err := filex.SaveFile(s.downloadDir, DownloadFileName, data)
	if err != nil {
		return "", 0, err
	}
	s.log.Info(ctx, "search results saved", "path", path, "bytes", len(data))
	return path, len(data), nil
}
