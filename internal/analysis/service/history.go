package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/projectziio/ziio-ai/internal/analysis/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAnalysis = errors.New("analysis must be a JSON object")
	ErrNoFileName      = errors.New("fileName is required")
)

// History stores and retrieves saved file analyses.
type History interface {
	Save(ctx context.Context, fileName string, fileSize int64, result json.RawMessage) (string, error)
	Get(ctx context.Context, id string) (*analysis.FileAnalysis, error)
	List(ctx context.Context, limit int) ([]*analysis.FileAnalysis, error)
}

// NewMemoryHistory returns a History backed by the in-memory repository.
func NewMemoryHistory() History {
	return &history{repo: repository.NewMemoryRepo()}
}

// NewMongoHistory returns a History backed by a MongoDB collection.
func NewMongoHistory(ctx context.Context, col *mongo.Collection) (History, error) {
	repo, err := repository.NewMongoRepo(ctx, col)
	if err != nil {
		return nil, err
	}
	return &history{repo: repo}, nil
}

type history struct {
	repo repository.Repository
}

func (h *history) Save(ctx context.Context, fileName string, fileSize int64, result json.RawMessage) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", ErrNoFileName
	}
	result = bytes.TrimSpace(result)
	var obj map[string]json.RawMessage
	if len(result) == 0 || result[0] != '{' || json.Unmarshal(result, &obj) != nil {
		return "", ErrInvalidAnalysis
	}
	return h.repo.Save(ctx, &analysis.FileAnalysis{FileName: fileName, FileSize: fileSize, Analysis: result})
}

func (h *history) Get(ctx context.Context, id string) (*analysis.FileAnalysis, error) {
	fa, err := h.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return fa, err
}

func (h *history) List(ctx context.Context, limit int) ([]*analysis.FileAnalysis, error) {
	return h.repo.List(ctx, limit)
}
