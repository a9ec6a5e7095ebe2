package service

import (
	"context"
	"errors"

	venueserrors "venuebook/internal/venues/errors"
	"venuebook/internal/venues/repository"
	apperrors "venuebook/pkg/errors"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

type VenueService interface {
	GetByID(ctx context.Context, id string) (*model.Venue, error)
	List(ctx context.Context, limit int, offset int64) ([]*model.Venue, int64, error)
}

type venueService struct {
	repo   repository.VenueRepository
	logger *logger.Logger
}

func NewVenueService(repo repository.VenueRepository, log *logger.Logger) VenueService {
	return &venueService{
		repo:   repo,
		logger: log,
	}
}

func (s *venueService) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	venue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, venueserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("venue", id)
		}
		return nil, apperrors.Internal("failed to get venue", err)
	}
	return venue, nil
}

func (s *venueService) List(ctx context.Context, limit int, offset int64) ([]*model.Venue, int64, error) {
	venues, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list venues", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count venues", err)
	}

	if venues == nil {
		venues = []*model.Venue{}
	}
	return venues, total, nil
}
