package usecase

import (
	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is the authenticated actor, taken from the verified token. Every
// permission decision in the service layer works off this value alone.
type Identity struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == entity.RoleAdmin
}

type Service struct {
	Auth    AuthService
	User    UserService
	Hotel   HotelService
	Booking BookingService
	Report  ReportService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo.User, log),
		Hotel:   NewHotelService(repo, log),
		Booking: NewBookingService(repo, config.Booking, log),
		Report:  NewReportService(repo, log),
	}
}
