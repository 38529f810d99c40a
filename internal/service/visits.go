package service

import (
	"context"
	"strings"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/platform/geo"
	"github.com/diagnosis/syllatech-api/internal/repo/postgres"
	"github.com/diagnosis/syllatech-api/internal/utils"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

type VisitTracker interface {
	// Track records a page view in the background and returns at once.
	Track(ctx context.Context, path, clientIP string)
	Analytics(ctx context.Context) (*domain.Analytics, error)
}

type visitTracker struct {
	repo    postgres.VisitRepo
	locator geo.Locator
	queue   Enqueuer
}

func NewVisitTracker(repo postgres.VisitRepo, locator geo.Locator, queue Enqueuer) VisitTracker {
	return &visitTracker{repo: repo, locator: locator, queue: queue}
}

func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	return utils.Truncate(path, domain.MaxVisitPath)
}

func (t *visitTracker) Track(ctx context.Context, path, clientIP string) {
	path = NormalizePath(path)

	_, err := t.queue.Enqueue("visit.record", func(ctx context.Context) error {
		g := t.locator.Lookup(ctx, clientIP)
		return t.repo.Insert(ctx, &domain.Visit{
			Path:    path,
			Country: &g.Country,
			Region:  utils.OptionalString(&g.Region),
			City:    utils.OptionalString(&g.City),
		})
	})
	if err != nil {
		logger.WarnContext(ctx, "visit dropped", "path", path, "error", err)
	}
}

func (t *visitTracker) Analytics(ctx context.Context) (*domain.Analytics, error) {
	return t.repo.Analytics(ctx)
}
