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

type HotelService interface {
	// Public browse surface
	ListHotels(ctx context.Context, search, city string, page request.PaginatedRequest) (*response.PaginatedResponse[response.HotelResponse], error)
	GetHotel(ctx context.Context, hotelID string) (*response.HotelDetailResponse, error)
	Availability(ctx context.Context, hotelID string, req *request.AvailabilityRequest) ([]response.RoomTypeAvailabilityResponse, error)

	// Admin inventory management
	CreateHotel(ctx context.Context, req *request.HotelRequest) (*response.HotelResponse, error)
	UpdateHotel(ctx context.Context, hotelID string, req *request.HotelUpdateRequest) (*response.HotelResponse, error)
	DeleteHotel(ctx context.Context, hotelID string) error

	ListRoomTypes(ctx context.Context, hotelID string) ([]response.RoomTypeResponse, error)
	CreateRoomType(ctx context.Context, hotelID string, req *request.RoomTypeRequest) (*response.RoomTypeResponse, error)
	UpdateRoomType(ctx context.Context, roomTypeID string, req *request.RoomTypeUpdateRequest) (*response.RoomTypeResponse, error)
	DeleteRoomType(ctx context.Context, roomTypeID string) error

	ListRooms(ctx context.Context, hotelID string) ([]response.RoomResponse, error)
	CreateRoom(ctx context.Context, hotelID string, req *request.RoomRequest) (*response.RoomResponse, error)
	UpdateRoom(ctx context.Context, roomID string, req *request.RoomUpdateRequest) (*response.RoomResponse, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

type hotelService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewHotelService(repo *repository.Repository, log *zap.Logger) HotelService {
	return &hotelService{
		repo: repo,
		log:  log.With(zap.String("service", "hotel")),
	}
}

func (s *hotelService) ListHotels(ctx context.Context, search, city string, page request.PaginatedRequest) (*response.PaginatedResponse[response.HotelResponse], error) {
	hotels, err := s.repo.Hotel.FindAll(ctx, search, city, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Hotel.Count(ctx, search, city)
	if err != nil {
		return nil, err
	}

	occupancies, err := s.repo.Report.HotelOccupancies(ctx)
	if err != nil {
		return nil, err
	}
	byHotel := make(map[uuid.UUID]*repository.HotelOccupancy, len(occupancies))
	for _, o := range occupancies {
		byHotel[o.HotelID] = o
	}

	items := make([]response.HotelResponse, len(hotels))
	for i, h := range hotels {
		items[i] = response.HotelToResponse(h)
		if o, ok := byHotel[h.ID]; ok {
			items[i].Occupancy = response.OccupancyToSummary(o)
		}
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *hotelService) GetHotel(ctx context.Context, hotelID string) (*response.HotelDetailResponse, error) {
	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}

	hotel, err := s.repo.Hotel.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.Hotel.FindImages(ctx, id)
	if err != nil {
		return nil, err
	}
	roomTypes, err := s.repo.RoomType.FindByHotelID(ctx, id)
	if err != nil {
		return nil, err
	}

	occupancy, err := s.repo.Report.HotelOccupancyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &response.HotelDetailResponse{
		HotelResponse: response.HotelToResponse(hotel),
		Images:        make([]response.HotelImageResponse, len(images)),
		RoomTypes:     make([]response.RoomTypeResponse, len(roomTypes)),
	}
	for i, img := range images {
		detail.Images[i] = response.HotelImageToResponse(img)
	}
	for i, rt := range roomTypes {
		detail.RoomTypes[i] = response.RoomTypeToResponse(rt)
	}
	detail.Occupancy = response.OccupancyToSummary(occupancy)

	return detail, nil
}

func (s *hotelService) Availability(ctx context.Context, hotelID string, req *request.AvailabilityRequest) ([]response.RoomTypeAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}

	window, err := parseWindow(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Hotel.FindByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.repo.Booking.FreeRoomCounts(ctx, id, window)
	if err != nil {
		return nil, err
	}

	result := make([]response.RoomTypeAvailabilityResponse, len(rows))
	for i, row := range rows {
		result[i] = response.AvailabilityToResponse(row)
	}
	return result, nil
}

func (s *hotelService) CreateHotel(ctx context.Context, req *request.HotelRequest) (*response.HotelResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	now := time.Now()
	hotel := &entity.Hotel{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		City:        req.City,
		Country:     req.Country,
		Address:     req.Address,
		Description: req.Description,
		StarRating:  req.StarRating,
		Amenities:   req.Amenities,
	}

	if err := s.repo.Hotel.Create(ctx, hotel); err != nil {
		return nil, err
	}

	s.log.Info("Hotel created", zap.String("hotel_id", hotel.ID.String()), zap.String("name", hotel.Name))

	resp := response.HotelToResponse(hotel)
	return &resp, nil
}

func (s *hotelService) UpdateHotel(ctx context.Context, hotelID string, req *request.HotelUpdateRequest) (*response.HotelResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}

	hotel, err := s.repo.Hotel.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		hotel.Name = *req.Name
	}
	if req.City != nil {
		hotel.City = *req.City
	}
	if req.Country != nil {
		hotel.Country = *req.Country
	}
	if req.Address != nil {
		hotel.Address = req.Address
	}
	if req.Description != nil {
		hotel.Description = req.Description
	}
	if req.StarRating != nil {
		hotel.StarRating = req.StarRating
	}
	if req.Amenities != nil {
		hotel.Amenities = req.Amenities
	}
	hotel.UpdatedAt = time.Now()

	if err := s.repo.Hotel.Update(ctx, hotel); err != nil {
		return nil, err
	}

	resp := response.HotelToResponse(hotel)
	return &resp, nil
}

func (s *hotelService) DeleteHotel(ctx context.Context, hotelID string) error {
	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return err
	}

	if err := s.repo.Hotel.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Hotel deleted", zap.String("hotel_id", hotelID))
	return nil
}

func (s *hotelService) ListRoomTypes(ctx context.Context, hotelID string) ([]response.RoomTypeResponse, error) {
	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}

	roomTypes, err := s.repo.RoomType.FindByHotelID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := make([]response.RoomTypeResponse, len(roomTypes))
	for i, rt := range roomTypes {
		result[i] = response.RoomTypeToResponse(rt)
	}
	return result, nil
}

func (s *hotelService) CreateRoomType(ctx context.Context, hotelID string, req *request.RoomTypeRequest) (*response.RoomTypeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Hotel.FindByID(ctx, id); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now()
	roomType := &entity.RoomType{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HotelID:     id,
		Name:        req.Name,
		Capacity:    req.Capacity,
		BasePrice:   req.BasePrice,
		Description: req.Description,
		Amenities:   req.Amenities,
		Active:      active,
	}

	if err := s.repo.RoomType.Create(ctx, roomType); err != nil {
		return nil, err
	}

	s.log.Info("Room type created",
		zap.String("room_type_id", roomType.ID.String()),
		zap.String("hotel_id", hotelID),
	)

	resp := response.RoomTypeToResponse(roomType)
	return &resp, nil
}

func (s *hotelService) UpdateRoomType(ctx context.Context, roomTypeID string, req *request.RoomTypeUpdateRequest) (*response.RoomTypeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	id, err := parseID(roomTypeID, "room type")
	if err != nil {
		return nil, err
	}

	roomType, err := s.repo.RoomType.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		roomType.Name = *req.Name
	}
	if req.Capacity != nil {
		roomType.Capacity = *req.Capacity
	}
	if req.BasePrice != nil {
		roomType.BasePrice = *req.BasePrice
	}
	if req.Description != nil {
		roomType.Description = req.Description
	}
	if req.Amenities != nil {
		roomType.Amenities = req.Amenities
	}
	if req.Active != nil {
		roomType.Active = *req.Active
	}
	roomType.UpdatedAt = time.Now()

	if err := s.repo.RoomType.Update(ctx, roomType); err != nil {
		return nil, err
	}

	resp := response.RoomTypeToResponse(roomType)
	return &resp, nil
}

func (s *hotelService) DeleteRoomType(ctx context.Context, roomTypeID string) error {
	id, err := parseID(roomTypeID, "room type")
	if err != nil {
		return err
	}
	return s.repo.RoomType.Delete(ctx, id)
}

func (s *hotelService) ListRooms(ctx context.Context, hotelID string) ([]response.RoomResponse, error) {
	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}

	rooms, err := s.repo.Room.FindByHotelID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := make([]response.RoomResponse, len(rooms))
	for i, room := range rooms {
		result[i] = response.RoomToResponse(room)
	}
	return result, nil
}

func (s *hotelService) CreateRoom(ctx context.Context, hotelID string, req *request.RoomRequest) (*response.RoomResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	id, err := parseID(hotelID, "hotel")
	if err != nil {
		return nil, err
	}
	roomTypeID, err := parseID(req.RoomTypeID, "room type")
	if err != nil {
		return nil, err
	}

	roomType, err := s.repo.RoomType.FindByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType.HotelID != id {
		return nil, fmt.Errorf("room type %s does not belong to hotel %s: %w",
			req.RoomTypeID, hotelID, repository.ErrValidation)
	}

	status := entity.RoomStatusAvailable
	if req.Status != "" {
		status = entity.RoomStatus(req.Status)
	}

	now := time.Now()
	room := &entity.Room{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HotelID:    id,
		RoomTypeID: roomTypeID,
		RoomNumber: req.RoomNumber,
		Status:     status,
		Active:     true,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("hotel_id", hotelID),
		zap.String("room_number", room.RoomNumber),
	)

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *hotelService) UpdateRoom(ctx context.Context, roomID string, req *request.RoomUpdateRequest) (*response.RoomResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", utils.FormatValidationErrors(errs), repository.ErrValidation)
	}

	id, err := parseID(roomID, "room")
	if err != nil {
		return nil, err
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RoomTypeID != nil {
		roomTypeID, err := parseID(*req.RoomTypeID, "room type")
		if err != nil {
			return nil, err
		}
		roomType, err := s.repo.RoomType.FindByID(ctx, roomTypeID)
		if err != nil {
			return nil, err
		}
		if roomType.HotelID != room.HotelID {
			return nil, fmt.Errorf("room type %s does not belong to hotel %s: %w",
				*req.RoomTypeID, room.HotelID.String(), repository.ErrValidation)
		}
		room.RoomTypeID = roomTypeID
	}
	if req.RoomNumber != nil {
		room.RoomNumber = *req.RoomNumber
	}
	if req.Status != nil {
		room.Status = entity.RoomStatus(*req.Status)
	}
	if req.Active != nil {
		room.Active = *req.Active
	}
	room.UpdatedAt = time.Now()

	if err := s.repo.Room.Update(ctx, room); err != nil {
		return nil, err
	}

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *hotelService) DeleteRoom(ctx context.Context, roomID string) error {
	id, err := parseID(roomID, "room")
	if err != nil {
		return err
	}
	return s.repo.Room.Delete(ctx, id)
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", what, raw, repository.ErrValidation)
	}
	return id, nil
}
