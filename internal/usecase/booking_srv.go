package usecase

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Create books a room of the requested type. The concrete room is chosen
	// by the allocator; callers never pick rooms directly.
	Create(ctx context.Context, actor Identity, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	// Reschedule moves an editable booking to a new stay window, re-running
	// allocation. The room may change.
	Reschedule(ctx context.Context, actor Identity, bookingID string, req *request.RescheduleBookingRequest) (*response.BookingResponse, error)

	// Cancel releases the booking's room. Cancelling an already-cancelled
	// booking is a no-op and appends no audit row.
	Cancel(ctx context.Context, actor Identity, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)

	// TransitionStatus moves a booking along the lifecycle
	// (confirm, check in, check out, cancel). Admin only.
	TransitionStatus(ctx context.Context, actor Identity, bookingID string, req *request.TransitionStatusRequest) (*response.BookingResponse, error)

	GetByID(ctx context.Context, actor Identity, bookingID string) (*response.BookingDetailResponse, error)
	List(ctx context.Context, actor Identity, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// History returns the booking's audit trail in change order. Admin only;
	// guests see their history embedded in GetByID.
	History(ctx context.Context, actor Identity, bookingID string) ([]response.StatusLogResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	policy utils.BookingConfig
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, policy utils.BookingConfig, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		policy: policy,
		log:    log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Create(ctx context.Context, actor Identity, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, fmt.Errorf("invalid hotel id: %w", repository.ErrValidation)
	}
	roomTypeID, err := uuid.Parse(req.RoomTypeID)
	if err != nil {
		return nil, fmt.Errorf("invalid room type id: %w", repository.ErrValidation)
	}

	window, err := parseWindow(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if !window.CheckOut.After(time.Now()) {
		return nil, fmt.Errorf("stay window is entirely in the past: %w", repository.ErrValidation)
	}

	if _, err := s.repo.Hotel.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}

	roomType, err := s.repo.RoomType.FindByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType.HotelID != hotelID {
		return nil, fmt.Errorf("room type %s does not belong to hotel %s: %w",
			req.RoomTypeID, req.HotelID, repository.ErrValidation)
	}
	if !roomType.Active {
		return nil, fmt.Errorf("room type %s is not bookable: %w", req.RoomTypeID, repository.ErrValidation)
	}
	if req.NumGuests > roomType.Capacity {
		return nil, fmt.Errorf("%d guests exceed room type capacity %d: %w",
			req.NumGuests, roomType.Capacity, repository.ErrValidation)
	}

	guestUserID, guestName, err := s.resolveGuest(ctx, actor, req.GuestUserID, req.GuestName)
	if err != nil {
		return nil, err
	}

	// The total is quoted by the caller, not priced here.
	currency := req.Currency
	if currency == "" {
		currency = s.policy.DefaultCurrency
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookedByUserID: actor.UserID,
		GuestUserID:    guestUserID,
		GuestName:      guestName,
		HotelID:        hotelID,
		RoomTypeID:     roomTypeID,
		CheckIn:        window.CheckIn,
		CheckOut:       window.CheckOut,
		Status:         entity.BookingStatus(s.policy.InitialStatus),
		NumGuests:      req.NumGuests,
		TotalAmount:    req.TotalAmount,
		Currency:       currency,
	}

	if err := s.repo.Booking.CreateAllocated(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", booking.RoomID.String()),
		zap.String("hotel_id", hotelID.String()),
		zap.Time("check_in", booking.CheckIn),
		zap.Time("check_out", booking.CheckOut),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Reschedule(ctx context.Context, actor Identity, bookingID string, req *request.RescheduleBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	booking, err := s.findForActor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.Editable() {
		return nil, fmt.Errorf("booking in status %s can no longer be modified: %w",
			string(booking.Status), repository.ErrValidation)
	}

	// Omitted dates keep the booking's current window.
	checkIn, checkOut := booking.CheckIn, booking.CheckOut
	if req.CheckIn != "" {
		if checkIn, err = utils.ParseStayTime(req.CheckIn); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), repository.ErrValidation)
		}
	}
	if req.CheckOut != "" {
		if checkOut, err = utils.ParseStayTime(req.CheckOut); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), repository.ErrValidation)
		}
	}

	window := entity.NewWindow(checkIn, checkOut)
	if !window.Valid() {
		return nil, fmt.Errorf("check_out must be after check_in: %w", repository.ErrValidation)
	}
	if !window.CheckOut.After(time.Now()) {
		return nil, fmt.Errorf("stay window is entirely in the past: %w", repository.ErrValidation)
	}

	roomType, err := s.repo.RoomType.FindByID(ctx, booking.RoomTypeID)
	if err != nil {
		return nil, err
	}

	if req.NumGuests != nil {
		booking.NumGuests = *req.NumGuests
	}
	if booking.NumGuests > roomType.Capacity {
		return nil, fmt.Errorf("%d guests exceed room type capacity %d: %w",
			booking.NumGuests, roomType.Capacity, repository.ErrValidation)
	}

	booking.CheckIn = window.CheckIn
	booking.CheckOut = window.CheckOut
	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.Reallocate(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking rescheduled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", booking.RoomID.String()),
		zap.Time("check_in", booking.CheckIn),
		zap.Time("check_out", booking.CheckOut),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor Identity, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	booking, err := s.findForActor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	// Repeated cancellation is a no-op, not an error, and leaves the audit
	// log untouched.
	if booking.Status == entity.BookingStatusCancelled {
		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return nil, fmt.Errorf("booking in status %s cannot be cancelled: %w",
			string(booking.Status), repository.ErrValidation)
	}

	// Late cancellation is a staff capability, not something the guest holds.
	if !actor.IsAdmin() && !time.Now().Before(booking.CheckIn) {
		return nil, fmt.Errorf("stay already started, contact the hotel to cancel: %w", repository.ErrForbidden)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, actor.UserID, booking.Status, entity.BookingStatusCancelled, req.Note); err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("by_user", actor.UserID.String()),
	)

	booking.Status = entity.BookingStatusCancelled
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) TransitionStatus(ctx context.Context, actor Identity, bookingID string, req *request.TransitionStatusRequest) (*response.BookingResponse, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only staff may change booking status: %w", repository.ErrForbidden)
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", repository.ErrValidation)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to := entity.BookingStatus(req.Status)
	if !booking.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("cannot transition booking from %s to %s: %w",
			string(booking.Status), string(to), repository.ErrValidation)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, actor.UserID, booking.Status, to, req.Note); err != nil {
		return nil, err
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(to)),
		zap.String("by_user", actor.UserID.String()),
	)

	booking.Status = to
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor Identity, bookingID string) (*response.BookingDetailResponse, error) {
	booking, err := s.findForActor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.StatusLog.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	history := make([]response.StatusLogResponse, len(logs))
	for i, l := range logs {
		history[i] = response.StatusLogToResponse(l)
	}

	return &response.BookingDetailResponse{
		BookingResponse: response.BookingToResponse(booking),
		History:         history,
	}, nil
}

func (s *bookingService) List(ctx context.Context, actor Identity, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	filter := repository.BookingFilter{
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}

	// Non-admins only ever see bookings they are party to.
	if !actor.IsAdmin() {
		userID := actor.UserID
		filter.ForUser = &userID
	}

	if req.HotelID != "" {
		hotelID, err := uuid.Parse(req.HotelID)
		if err != nil {
			return nil, fmt.Errorf("invalid hotel id: %w", repository.ErrValidation)
		}
		filter.HotelID = &hotelID
	}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}
	if req.From != "" {
		from, err := utils.ParseStayTime(req.From)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), repository.ErrValidation)
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := utils.ParseStayTime(req.To)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), repository.ErrValidation)
		}
		filter.To = &to
	}

	bookings, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) History(ctx context.Context, actor Identity, bookingID string) ([]response.StatusLogResponse, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only staff may read the audit trail directly: %w", repository.ErrForbidden)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", repository.ErrValidation)
	}
	if _, err := s.repo.Booking.FindByID(ctx, id); err != nil {
		return nil, err
	}

	logs, err := s.repo.StatusLog.FindByBookingID(ctx, id)
	if err != nil {
		return nil, err
	}

	history := make([]response.StatusLogResponse, len(logs))
	for i, l := range logs {
		history[i] = response.StatusLogToResponse(l)
	}
	return history, nil
}

// findForActor loads a booking and enforces read/write access: the booker,
// the guest and admins qualify, everyone else gets ErrForbidden.
func (s *bookingService) findForActor(ctx context.Context, actor Identity, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", repository.ErrValidation)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !booking.IsParty(actor.UserID) {
		return nil, fmt.Errorf("booking %s belongs to another user: %w", bookingID, repository.ErrForbidden)
	}

	return booking, nil
}

// resolveGuest decides who the stay is for. Regular users always book for
// themselves; admins may additionally book for another registered user or a
// walk-in guest known only by name.
func (s *bookingService) resolveGuest(ctx context.Context, actor Identity, guestUserID, guestName *string) (*uuid.UUID, *string, error) {
	if guestUserID != nil && guestName != nil {
		return nil, nil, fmt.Errorf("guest_user_id and guest_name are mutually exclusive: %w", repository.ErrValidation)
	}

	if guestUserID != nil {
		id, err := uuid.Parse(*guestUserID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid guest user id: %w", repository.ErrValidation)
		}
		if !actor.IsAdmin() && id != actor.UserID {
			return nil, nil, fmt.Errorf("only staff may book for another user: %w", repository.ErrForbidden)
		}
		if _, err := s.repo.User.FindByID(ctx, id); err != nil {
			return nil, nil, err
		}
		return &id, nil, nil
	}

	if guestName != nil {
		if !actor.IsAdmin() {
			return nil, nil, fmt.Errorf("only staff may book for a named walk-in guest: %w", repository.ErrForbidden)
		}
		return nil, guestName, nil
	}

	self := actor.UserID
	return &self, nil, nil
}

// parseWindow turns the raw boundary strings into a validated half-open
// stay window.
func parseWindow(checkIn, checkOut string) (entity.Window, error) {
	ci, err := utils.ParseStayTime(checkIn)
	if err != nil {
		return entity.Window{}, fmt.Errorf("%s: %w", err.Error(), repository.ErrValidation)
	}
	co, err := utils.ParseStayTime(checkOut)
	if err != nil {
		return entity.Window{}, fmt.Errorf("%s: %w", err.Error(), repository.ErrValidation)
	}

	window := entity.NewWindow(ci, co)
	if !window.Valid() {
		return entity.Window{}, fmt.Errorf("check_out must be after check_in: %w", repository.ErrValidation)
	}
	return window, nil
}
