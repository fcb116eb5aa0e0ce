package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is a mutex-guarded in-memory stand-in for the Postgres layer.
// Allocation inside it is atomic, mirroring what the exclusion constraint
// guarantees for the real repositories, so concurrent Create calls observe
// the same exactly-one-winner behavior.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	hotels    map[uuid.UUID]*entity.Hotel
	roomTypes map[uuid.UUID]*entity.RoomType
	rooms     []*entity.Room
	bookings  map[uuid.UUID]*entity.Booking
	logs      []*entity.BookingStatusLog
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]*entity.User),
		hotels:    make(map[uuid.UUID]*entity.Hotel),
		roomTypes: make(map[uuid.UUID]*entity.RoomType),
		bookings:  make(map[uuid.UUID]*entity.Booking),
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:      &memUserRepo{s},
		Hotel:     &memHotelRepo{s},
		RoomType:  &memRoomTypeRepo{s},
		Room:      &memRoomRepo{s},
		Booking:   &memBookingRepo{s},
		StatusLog: &memStatusLogRepo{s},
		Report:    &memReportRepo{s},
	}
}

// fixture helpers

func (s *memStore) addUser(role entity.UserRole) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{
		Base: entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		FullName: "Test User",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Role:     role,
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addHotel() *entity.Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &entity.Hotel{
		Base: entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name: "Test Hotel", City: "Lisbon", Country: "PT",
	}
	s.hotels[h.ID] = h
	return h
}

func (s *memStore) addRoomType(hotelID uuid.UUID, capacity int, basePrice float64) *entity.RoomType {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt := &entity.RoomType{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		HotelID:   hotelID,
		Name:      "Double",
		Capacity:  capacity,
		BasePrice: basePrice,
		Active:    true,
	}
	s.roomTypes[rt.ID] = rt
	return rt
}

func (s *memStore) addRoom(hotelID, roomTypeID uuid.UUID, number string) *entity.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &entity.Room{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		HotelID:    hotelID,
		RoomTypeID: roomTypeID,
		RoomNumber: number,
		Status:     entity.RoomStatusAvailable,
		Active:     true,
	}
	s.rooms = append(s.rooms, r)
	sort.Slice(s.rooms, func(i, j int) bool {
		return bytes.Compare(s.rooms[i].ID[:], s.rooms[j].ID[:]) < 0
	})
	return r
}

// seedBooking injects a booking directly, bypassing the allocator. Used
// for fixtures like already-started stays.
func (s *memStore) seedBooking(b *entity.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.bookings[b.ID] = b
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *memStore) logCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

// freeRoomLocked mirrors the allocator query: lowest-id active available
// room of the type with no room-blocking booking overlapping the window.
// Callers must hold the mutex.
func (s *memStore) freeRoomLocked(hotelID, roomTypeID uuid.UUID, window entity.Window, excludeBooking uuid.UUID) (uuid.UUID, bool) {
	for _, room := range s.rooms {
		if room.HotelID != hotelID || room.RoomTypeID != roomTypeID || !room.Bookable() {
			continue
		}
		if s.roomBusyLocked(room.ID, window, excludeBooking) {
			continue
		}
		return room.ID, true
	}
	return uuid.Nil, false
}

func (s *memStore) roomBusyLocked(roomID uuid.UUID, window entity.Window, excludeBooking uuid.UUID) bool {
	for _, b := range s.bookings {
		if b.RoomID != roomID || b.ID == excludeBooking || !b.Status.BlocksRoom() {
			continue
		}
		if b.Window().Overlaps(window) {
			return true
		}
	}
	return false
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	c := *b
	return &c
}

// --- repository fakes ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("email already registered: %w", repository.ErrConflict)
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

type memHotelRepo struct{ s *memStore }

func (r *memHotelRepo) Create(_ context.Context, hotel *entity.Hotel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.hotels[hotel.ID] = hotel
	return nil
}

func (r *memHotelRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.hotels[id]
	if !ok {
		return nil, fmt.Errorf("hotel %s: %w", id, repository.ErrNotFound)
	}
	c := *h
	return &c, nil
}

func (r *memHotelRepo) FindAll(_ context.Context, _, _ string, _, _ int) ([]*entity.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var hotels []*entity.Hotel
	for _, h := range r.s.hotels {
		c := *h
		hotels = append(hotels, &c)
	}
	return hotels, nil
}

func (r *memHotelRepo) Count(_ context.Context, _, _ string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.hotels)), nil
}

func (r *memHotelRepo) Update(_ context.Context, hotel *entity.Hotel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.hotels[hotel.ID] = hotel
	return nil
}

func (r *memHotelRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.hotels, id)
	return nil
}

func (r *memHotelRepo) FindImages(_ context.Context, _ uuid.UUID) ([]*entity.HotelImage, error) {
	return nil, nil
}

type memRoomTypeRepo struct{ s *memStore }

func (r *memRoomTypeRepo) Create(_ context.Context, rt *entity.RoomType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.roomTypes[rt.ID] = rt
	return nil
}

func (r *memRoomTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RoomType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.roomTypes[id]
	if !ok {
		return nil, fmt.Errorf("room type %s: %w", id, repository.ErrNotFound)
	}
	c := *rt
	return &c, nil
}

func (r *memRoomTypeRepo) FindByHotelID(_ context.Context, hotelID uuid.UUID) ([]*entity.RoomType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.RoomType
	for _, rt := range r.s.roomTypes {
		if rt.HotelID == hotelID {
			c := *rt
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r *memRoomTypeRepo) Update(_ context.Context, rt *entity.RoomType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.roomTypes[rt.ID] = rt
	return nil
}

func (r *memRoomTypeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.roomTypes, id)
	return nil
}

type memRoomRepo struct{ s *memStore }

func (r *memRoomRepo) Create(_ context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rooms = append(r.s.rooms, room)
	sort.Slice(r.s.rooms, func(i, j int) bool {
		return bytes.Compare(r.s.rooms[i].ID[:], r.s.rooms[j].ID[:]) < 0
	})
	return nil
}

func (r *memRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, room := range r.s.rooms {
		if room.ID == id {
			c := *room
			return &c, nil
		}
	}
	return nil, fmt.Errorf("room %s: %w", id, repository.ErrNotFound)
}

func (r *memRoomRepo) FindByHotelID(_ context.Context, hotelID uuid.UUID) ([]*entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Room
	for _, room := range r.s.rooms {
		if room.HotelID == hotelID {
			c := *room
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r *memRoomRepo) ListActiveOfType(_ context.Context, hotelID, roomTypeID uuid.UUID) ([]*entity.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Room
	for _, room := range r.s.rooms {
		if room.HotelID == hotelID && room.RoomTypeID == roomTypeID && room.Active {
			c := *room
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r *memRoomRepo) Update(_ context.Context, room *entity.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.rooms {
		if existing.ID == room.ID {
			r.s.rooms[i] = room
			return nil
		}
	}
	return fmt.Errorf("room %s: %w", room.ID, repository.ErrNotFound)
}

func (r *memRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, room := range r.s.rooms {
		if room.ID == id {
			r.s.rooms = append(r.s.rooms[:i], r.s.rooms[i+1:]...)
			return nil
		}
	}
	return nil
}

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) CreateAllocated(_ context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	roomID, ok := r.s.freeRoomLocked(booking.HotelID, booking.RoomTypeID, booking.Window(), uuid.Nil)
	if !ok {
		return fmt.Errorf("hotel %s room type %s: %w",
			booking.HotelID, booking.RoomTypeID, repository.ErrNoAvailability)
	}
	booking.RoomID = roomID
	r.s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *memBookingRepo) Reallocate(_ context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("booking %s: %w", booking.ID, repository.ErrNotFound)
	}
	if !stored.Status.Editable() {
		return fmt.Errorf("reallocate booking %s: %w", booking.ID, repository.ErrConflict)
	}
	roomID, free := r.s.freeRoomLocked(booking.HotelID, booking.RoomTypeID, booking.Window(), booking.ID)
	if !free {
		return fmt.Errorf("hotel %s room type %s: %w",
			booking.HotelID, booking.RoomTypeID, repository.ErrNoAvailability)
	}
	booking.RoomID = roomID
	stored.RoomID = roomID
	stored.CheckIn = booking.CheckIn
	stored.CheckOut = booking.CheckOut
	stored.NumGuests = booking.NumGuests
	stored.TotalAmount = booking.TotalAmount
	stored.UpdatedAt = booking.UpdatedAt
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	return cloneBooking(b), nil
}

func (r *memBookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Booking
	for _, b := range r.s.bookings {
		if matchesFilter(b, filter) {
			result = append(result, cloneBooking(b))
		}
	}
	return result, nil
}

func (r *memBookingRepo) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookings {
		if matchesFilter(b, filter) {
			n++
		}
	}
	return n, nil
}

func matchesFilter(b *entity.Booking, filter repository.BookingFilter) bool {
	if filter.ForUser != nil && !b.IsParty(*filter.ForUser) {
		return false
	}
	if filter.HotelID != nil && b.HotelID != *filter.HotelID {
		return false
	}
	if filter.Status != nil && b.Status != *filter.Status {
		return false
	}
	if filter.From != nil && b.CheckIn.Before(*filter.From) {
		return false
	}
	if filter.To != nil && b.CheckOut.After(*filter.To) {
		return false
	}
	return true
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, bookingID, actorID uuid.UUID, from, to entity.BookingStatus, note *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}
	if b.Status != from {
		return fmt.Errorf("booking %s no longer in status %s: %w", bookingID, from, repository.ErrConflict)
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	fromCopy := from
	r.s.logs = append(r.s.logs, &entity.BookingStatusLog{
		ID:              uuid.New(),
		BookingID:       bookingID,
		ChangedByUserID: actorID,
		FromStatus:      &fromCopy,
		ToStatus:        to,
		Note:            note,
		ChangedAt:       time.Now(),
	})
	return nil
}

func (r *memBookingRepo) FindFreeRoom(_ context.Context, hotelID, roomTypeID uuid.UUID, window entity.Window) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	roomID, ok := r.s.freeRoomLocked(hotelID, roomTypeID, window, uuid.Nil)
	if !ok {
		return uuid.Nil, fmt.Errorf("hotel %s room type %s: %w", hotelID, roomTypeID, repository.ErrNoAvailability)
	}
	return roomID, nil
}

func (r *memBookingRepo) IsRoomFree(_ context.Context, roomID uuid.UUID, window entity.Window) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return !r.s.roomBusyLocked(roomID, window, uuid.Nil), nil
}

func (r *memBookingRepo) FreeRoomCounts(_ context.Context, hotelID uuid.UUID, window entity.Window) ([]repository.RoomTypeAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []repository.RoomTypeAvailability
	for _, rt := range r.s.roomTypes {
		if rt.HotelID != hotelID || !rt.Active {
			continue
		}
		row := repository.RoomTypeAvailability{
			RoomTypeID: rt.ID,
			Name:       rt.Name,
			Capacity:   rt.Capacity,
			BasePrice:  rt.BasePrice,
		}
		for _, room := range r.s.rooms {
			if room.RoomTypeID == rt.ID && room.Bookable() && !r.s.roomBusyLocked(room.ID, window, uuid.Nil) {
				row.FreeRooms++
			}
		}
		result = append(result, row)
	}
	return result, nil
}

type memStatusLogRepo struct{ s *memStore }

func (r *memStatusLogRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.BookingStatusLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.BookingStatusLog
	for _, l := range r.s.logs {
		if l.BookingID == bookingID {
			c := *l
			result = append(result, &c)
		}
	}
	return result, nil
}

type memReportRepo struct{ s *memStore }

func (r *memReportRepo) HotelOccupancies(_ context.Context) ([]*repository.HotelOccupancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*repository.HotelOccupancy
	for _, h := range r.s.hotels {
		result = append(result, r.occupancyLocked(h))
	}
	return result, nil
}

func (r *memReportRepo) HotelOccupancyByID(_ context.Context, hotelID uuid.UUID) (*repository.HotelOccupancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.hotels[hotelID]
	if !ok {
		return nil, fmt.Errorf("hotel %s: %w", hotelID, repository.ErrNotFound)
	}
	return r.occupancyLocked(h), nil
}

func (r *memReportRepo) occupancyLocked(h *entity.Hotel) *repository.HotelOccupancy {
	o := &repository.HotelOccupancy{HotelID: h.ID, Name: h.Name, Status: "available"}
	now := time.Now()
	instant := entity.NewWindow(now, now.Add(time.Nanosecond))
	for _, room := range r.s.rooms {
		if room.HotelID != h.ID {
			continue
		}
		o.TotalRooms++
		if room.Bookable() && !r.s.roomBusyLocked(room.ID, instant, uuid.Nil) {
			o.AvailableRooms++
		}
	}
	switch {
	case o.TotalRooms == 0:
		o.Status = "no rooms"
	case o.AvailableRooms == 0:
		o.Status = "full"
	}
	return o
}

func (r *memReportRepo) UserBookingCount(_ context.Context, userID, hotelID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookings {
		if b.HotelID == hotelID && b.Status != entity.BookingStatusCancelled && b.IsParty(userID) {
			n++
		}
	}
	return n, nil
}

func (r *memReportRepo) UserBookingCounts(_ context.Context, userID uuid.UUID) ([]*repository.UserHotelBookingCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	perHotel := make(map[uuid.UUID]int64)
	for _, b := range r.s.bookings {
		if b.Status != entity.BookingStatusCancelled && b.IsParty(userID) {
			perHotel[b.HotelID]++
		}
	}
	var result []*repository.UserHotelBookingCount
	for hotelID, n := range perHotel {
		result = append(result, &repository.UserHotelBookingCount{
			UserID:   userID,
			HotelID:  hotelID,
			Bookings: n,
		})
	}
	return result, nil
}
