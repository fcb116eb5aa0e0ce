package usecase

import (
	"context"

	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/response"

	"go.uber.org/zap"
)

type ReportService interface {
	// HotelOccupancies summarizes room availability across all hotels.
	HotelOccupancies(ctx context.Context) ([]response.HotelOccupancyResponse, error)
	HotelOccupancy(ctx context.Context, hotelID string) (*response.HotelOccupancyResponse, error)

	// MyBookingCounts reports the actor's non-cancelled bookings per hotel.
	// A non-empty hotelID narrows the report to that hotel.
	MyBookingCounts(ctx context.Context, actor Identity, hotelID string) ([]response.UserHotelBookingCountResponse, error)
}

type reportService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReportService(repo *repository.Repository, log *zap.Logger) ReportService {
	return &reportService{
		repo: repo,
		log:  log.With(zap.String("service", "report")),
	}
}

func (s *reportService) HotelOccupancies(ctx context.Context) ([]response.HotelOccupancyResponse, error) {
	rows, err := s.repo.Report.HotelOccupancies(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]response.HotelOccupancyResponse, len(rows))
	for i, row := range rows {
		result[i] = response.OccupancyToResponse(row)
	}
	return result, nil
}

func (s *reportService) HotelOccupancy(ctx context.Context, hotelID string) (*response.HotelOccupancyResponse, error) {
	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}

	row, err := s.repo.Report.HotelOccupancyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.OccupancyToResponse(row)
	return &resp, nil
}

func (s *reportService) MyBookingCounts(ctx context.Context, actor Identity, hotelID string) ([]response.UserHotelBookingCountResponse, error) {
	if hotelID != "" {
		id, err := parseID(hotelID, "hotel")
		if err != nil {
			return nil, err
		}
		count, err := s.repo.Report.UserBookingCount(ctx, actor.UserID, id)
		if err != nil {
			return nil, err
		}
		return []response.UserHotelBookingCountResponse{{
			HotelID:  id.String(),
			Bookings: count,
		}}, nil
	}

	rows, err := s.repo.Report.UserBookingCounts(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	result := make([]response.UserHotelBookingCountResponse, len(rows))
	for i, row := range rows {
		result[i] = response.UserBookingCountToResponse(row)
	}
	return result, nil
}
