package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPolicy = utils.BookingConfig{
	InitialStatus:   "confirmed",
	DefaultCurrency: "USD",
}

type bookingFixture struct {
	store    *memStore
	svc      usecase.BookingService
	hotel    *entity.Hotel
	roomType *entity.RoomType
	user     usecase.Identity
	admin    usecase.Identity
}

func newBookingFixture(t *testing.T, roomCount int) *bookingFixture {
	t.Helper()

	store := newMemStore()
	hotel := store.addHotel()
	roomType := store.addRoomType(hotel.ID, 2, 100)
	for i := 0; i < roomCount; i++ {
		store.addRoom(hotel.ID, roomType.ID, string(rune('A'+i)))
	}

	user := store.addUser(entity.RoleUser)
	admin := store.addUser(entity.RoleAdmin)

	return &bookingFixture{
		store:    store,
		svc:      usecase.NewBookingService(store.repository(), testPolicy, zap.NewNop()),
		hotel:    hotel,
		roomType: roomType,
		user:     usecase.Identity{UserID: user.ID, Role: entity.RoleUser},
		admin:    usecase.Identity{UserID: admin.ID, Role: entity.RoleAdmin},
	}
}

func (f *bookingFixture) createRequest(checkIn, checkOut time.Time) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		HotelID:     f.hotel.ID.String(),
		RoomTypeID:  f.roomType.ID.String(),
		CheckIn:     checkIn.Format(time.RFC3339),
		CheckOut:    checkOut.Format(time.RFC3339),
		NumGuests:   2,
		TotalAmount: 300,
	}
}

func futureWindow(startDays, nights int) (time.Time, time.Time) {
	checkIn := time.Now().UTC().Truncate(time.Hour).Add(time.Duration(startDays) * 24 * time.Hour)
	return checkIn, checkIn.Add(time.Duration(nights) * 24 * time.Hour)
}

func TestCreateBookingAllocatesRoom(t *testing.T) {
	f := newBookingFixture(t, 2)
	checkIn, checkOut := futureWindow(2, 3)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	assert.NotEmpty(t, booking.RoomID, "allocator must pick a concrete room")
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 300.0, booking.TotalAmount, "quoted total stored untouched")
	assert.Equal(t, "USD", booking.Currency, "currency defaults from config")
	require.NotNil(t, booking.GuestUserID)
	assert.Equal(t, f.user.UserID.String(), *booking.GuestUserID, "defaults to booking for yourself")
	assert.Equal(t, 0, f.store.logCount(), "creation writes no audit rows")
}

func TestCreateBookingConcurrentLastRoom(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, repository.ErrNoAvailability)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one writer gets the last room")
	assert.Equal(t, 1, f.store.bookingCount())
}

func TestBackToBackStaysShareRoom(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	first, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	// Half-open windows: the next stay may start the moment this one ends.
	second, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkOut, checkOut.Add(48*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, first.RoomID, second.RoomID)
}

func TestCreateBookingNoAvailability(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 3)

	_, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	// Overlapping window on a fully booked type fails and changes nothing.
	_, err = f.svc.Create(context.Background(), f.user, f.createRequest(checkIn.Add(24*time.Hour), checkOut.Add(24*time.Hour)))
	require.ErrorIs(t, err, repository.ErrNoAvailability)
	assert.Equal(t, 1, f.store.bookingCount())
	assert.Equal(t, 0, f.store.logCount())
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	t.Run("inverted window", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkOut, checkIn))
		assert.ErrorIs(t, err, repository.ErrValidation)
	})

	t.Run("window in the past", func(t *testing.T) {
		past := time.Now().Add(-10 * 24 * time.Hour)
		_, err := f.svc.Create(context.Background(), f.user, f.createRequest(past, past.Add(24*time.Hour)))
		assert.ErrorIs(t, err, repository.ErrValidation)
	})

	t.Run("too many guests", func(t *testing.T) {
		req := f.createRequest(checkIn, checkOut)
		req.NumGuests = 5
		_, err := f.svc.Create(context.Background(), f.user, req)
		assert.ErrorIs(t, err, repository.ErrValidation)
	})

	t.Run("unknown hotel", func(t *testing.T) {
		req := f.createRequest(checkIn, checkOut)
		req.HotelID = uuid.NewString()
		_, err := f.svc.Create(context.Background(), f.user, req)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.Equal(t, 0, f.store.bookingCount(), "failed creates persist nothing")
}

func TestGuestResolution(t *testing.T) {
	f := newBookingFixture(t, 3)
	checkIn, checkOut := futureWindow(2, 2)
	other := f.store.addUser(entity.RoleUser)

	t.Run("regular user cannot book for someone else", func(t *testing.T) {
		req := f.createRequest(checkIn, checkOut)
		otherID := other.ID.String()
		req.GuestUserID = &otherID
		_, err := f.svc.Create(context.Background(), f.user, req)
		assert.ErrorIs(t, err, repository.ErrForbidden)
	})

	t.Run("regular user cannot name a walk-in guest", func(t *testing.T) {
		req := f.createRequest(checkIn, checkOut)
		name := "Walk In"
		req.GuestName = &name
		_, err := f.svc.Create(context.Background(), f.user, req)
		assert.ErrorIs(t, err, repository.ErrForbidden)
	})

	t.Run("guest id and name are mutually exclusive", func(t *testing.T) {
		req := f.createRequest(checkIn, checkOut)
		otherID := other.ID.String()
		name := "Walk In"
		req.GuestUserID = &otherID
		req.GuestName = &name
		_, err := f.svc.Create(context.Background(), f.admin, req)
		assert.ErrorIs(t, err, repository.ErrValidation)
	})

	t.Run("admin books for another user", func(t *testing.T) {
		req := f.createRequest(checkIn, checkOut)
		otherID := other.ID.String()
		req.GuestUserID = &otherID
		booking, err := f.svc.Create(context.Background(), f.admin, req)
		require.NoError(t, err)
		require.NotNil(t, booking.GuestUserID)
		assert.Equal(t, otherID, *booking.GuestUserID)
	})

	t.Run("admin books for a walk-in guest", func(t *testing.T) {
		req := f.createRequest(checkIn, checkOut)
		name := "Walk In"
		req.GuestName = &name
		booking, err := f.svc.Create(context.Background(), f.admin, req)
		require.NoError(t, err)
		assert.Nil(t, booking.GuestUserID)
		require.NotNil(t, booking.GuestName)
		assert.Equal(t, name, *booking.GuestName)
	})
}

func TestCancelFreesRoom(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), f.user, booking.ID, &request.CancelBookingRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, 1, f.store.logCount())

	// The freed room is immediately reusable for the same window.
	_, err = f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), f.user, booking.ID, &request.CancelBookingRequest{})
	require.NoError(t, err)

	again, err := f.svc.Cancel(context.Background(), f.user, booking.ID, &request.CancelBookingRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, again.Status)
	assert.Equal(t, 1, f.store.logCount(), "repeat cancellation appends no audit row")
}

func TestCancelAccessControl(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)
	stranger := f.store.addUser(entity.RoleUser)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(),
		usecase.Identity{UserID: stranger.ID, Role: entity.RoleUser},
		booking.ID, &request.CancelBookingRequest{})
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// Admins can cancel anyone's booking.
	_, err = f.svc.Cancel(context.Background(), f.admin, booking.ID, &request.CancelBookingRequest{})
	require.NoError(t, err)
}

func TestLateCancelRejectedForGuests(t *testing.T) {
	f := newBookingFixture(t, 1)

	// A stay that already started, seeded past the allocator.
	started := &entity.Booking{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		BookedByUserID: f.user.UserID,
		HotelID:        f.hotel.ID,
		RoomTypeID:     f.roomType.ID,
		RoomID:         uuid.New(),
		CheckIn:        time.Now().Add(-24 * time.Hour),
		CheckOut:       time.Now().Add(24 * time.Hour),
		Status:         entity.BookingStatusConfirmed,
		NumGuests:      1,
	}
	f.store.seedBooking(started)

	_, err := f.svc.Cancel(context.Background(), f.user, started.ID.String(), &request.CancelBookingRequest{})
	assert.ErrorIs(t, err, repository.ErrForbidden, "guests cannot cancel a started stay")

	_, err = f.svc.Cancel(context.Background(), f.admin, started.ID.String(), &request.CancelBookingRequest{})
	require.NoError(t, err, "staff can still cancel after the stay started")
}

func TestReschedule(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	// A second booking occupies the room right after the first.
	blocker, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkOut, checkOut.Add(48*time.Hour)))
	require.NoError(t, err)

	t.Run("conflicting target window fails and changes nothing", func(t *testing.T) {
		_, err := f.svc.Reschedule(context.Background(), f.user, booking.ID, &request.RescheduleBookingRequest{
			CheckIn:  checkOut.Add(24 * time.Hour).Format(time.RFC3339),
			CheckOut: checkOut.Add(72 * time.Hour).Format(time.RFC3339),
		})
		require.ErrorIs(t, err, repository.ErrNoAvailability)

		unchanged, err := f.svc.GetByID(context.Background(), f.user, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.CheckIn.Unix(), unchanged.CheckIn.Unix())
		assert.Equal(t, booking.CheckOut.Unix(), unchanged.CheckOut.Unix())
	})

	t.Run("free target window succeeds", func(t *testing.T) {
		newCheckIn := checkOut.Add(48 * time.Hour)
		moved, err := f.svc.Reschedule(context.Background(), f.user, booking.ID, &request.RescheduleBookingRequest{
			CheckIn:  newCheckIn.Format(time.RFC3339),
			CheckOut: newCheckIn.Add(72 * time.Hour).Format(time.RFC3339),
		})
		require.NoError(t, err)
		assert.Equal(t, newCheckIn.Unix(), moved.CheckIn.Unix())
		assert.Equal(t, 300.0, moved.TotalAmount, "quoted total untouched by date edits")
		assert.Equal(t, blocker.RoomID, moved.RoomID, "only room in the fixture")
	})

	assert.Equal(t, 0, f.store.logCount(), "rescheduling is not a status change")
}

func TestRescheduleRequiresEditableStatus(t *testing.T) {
	f := newBookingFixture(t, 2)
	checkIn, checkOut := futureWindow(2, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(context.Background(), f.admin, booking.ID, &request.TransitionStatusRequest{
		Status: string(entity.BookingStatusCheckedIn),
	})
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), f.user, booking.ID, &request.RescheduleBookingRequest{
		CheckIn:  checkIn.Add(24 * time.Hour).Format(time.RFC3339),
		CheckOut: checkOut.Add(24 * time.Hour).Format(time.RFC3339),
	})
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestTransitionStatus(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	t.Run("admin only", func(t *testing.T) {
		_, err := f.svc.TransitionStatus(context.Background(), f.user, booking.ID, &request.TransitionStatusRequest{
			Status: string(entity.BookingStatusCheckedIn),
		})
		assert.ErrorIs(t, err, repository.ErrForbidden)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		_, err := f.svc.TransitionStatus(context.Background(), f.admin, booking.ID, &request.TransitionStatusRequest{
			Status: string(entity.BookingStatusCheckedOut),
		})
		assert.ErrorIs(t, err, repository.ErrValidation)
	})

	t.Run("full lifecycle leaves a complete audit trail", func(t *testing.T) {
		note := "front desk"
		for _, status := range []entity.BookingStatus{
			entity.BookingStatusCheckedIn,
			entity.BookingStatusCheckedOut,
		} {
			_, err := f.svc.TransitionStatus(context.Background(), f.admin, booking.ID, &request.TransitionStatusRequest{
				Status: string(status),
				Note:   &note,
			})
			require.NoError(t, err)
		}

		detail, err := f.svc.GetByID(context.Background(), f.user, booking.ID)
		require.NoError(t, err)
		require.Len(t, detail.History, 2)

		first := detail.History[0]
		require.NotNil(t, first.FromStatus)
		assert.Equal(t, entity.BookingStatusConfirmed, *first.FromStatus)
		assert.Equal(t, entity.BookingStatusCheckedIn, first.ToStatus)
		assert.Equal(t, f.admin.UserID.String(), first.ChangedByUserID, "audit row names the real actor")

		assert.Equal(t, entity.BookingStatusCheckedOut, detail.History[1].ToStatus)
	})

	t.Run("checked out is terminal", func(t *testing.T) {
		_, err := f.svc.Cancel(context.Background(), f.admin, booking.ID, &request.CancelBookingRequest{})
		assert.ErrorIs(t, err, repository.ErrValidation)
	})
}

func TestListScopedToActor(t *testing.T) {
	f := newBookingFixture(t, 3)
	checkIn, checkOut := futureWindow(2, 2)
	other := f.store.addUser(entity.RoleUser)
	otherIdentity := usecase.Identity{UserID: other.ID, Role: entity.RoleUser}

	_, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), otherIdentity, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	mine, err := f.svc.List(context.Background(), f.user, &request.ListBookingsRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Data, 1)
	assert.Equal(t, f.user.UserID.String(), mine.Data[0].BookedByUserID)

	all, err := f.svc.List(context.Background(), f.admin, &request.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 2)
	assert.Equal(t, int64(2), all.Pagination.Total)
}

func TestGetByIDAccessControl(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)
	stranger := f.store.addUser(entity.RoleUser)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(),
		usecase.Identity{UserID: stranger.ID, Role: entity.RoleUser}, booking.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	_, err = f.svc.GetByID(context.Background(), f.admin, booking.ID)
	assert.NoError(t, err)
}

func TestHistoryAdminOnly(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), f.user, booking.ID, &request.CancelBookingRequest{})
	require.NoError(t, err)

	_, err = f.svc.History(context.Background(), f.user, booking.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	history, err := f.svc.History(context.Background(), f.admin, booking.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].FromStatus)
	assert.Equal(t, entity.BookingStatusConfirmed, *history[0].FromStatus)
	assert.Equal(t, entity.BookingStatusCancelled, history[0].ToStatus)

	_, err = f.svc.History(context.Background(), f.admin, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRescheduleMovesToFreeRoom(t *testing.T) {
	f := newBookingFixture(t, 2)
	checkIn, checkOut := futureWindow(2, 2)
	targetIn, targetOut := futureWindow(10, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	// Another stay takes the first-choice room for the target window.
	blocker, err := f.svc.Create(context.Background(), f.user, f.createRequest(targetIn, targetOut))
	require.NoError(t, err)
	require.Equal(t, booking.RoomID, blocker.RoomID, "allocator prefers the lowest room id")

	moved, err := f.svc.Reschedule(context.Background(), f.user, booking.ID, &request.RescheduleBookingRequest{
		CheckIn:  targetIn.Format(time.RFC3339),
		CheckOut: targetOut.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.NotEqual(t, blocker.RoomID, moved.RoomID, "reallocation picked the other room")
}

func TestCreateBookingQuotedTotal(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	req := f.createRequest(checkIn, checkOut)
	req.TotalAmount = 512.50
	req.Currency = "EUR"

	booking, err := f.svc.Create(context.Background(), f.user, req)
	require.NoError(t, err)
	assert.Equal(t, 512.50, booking.TotalAmount, "caller's quote is stored as-is")
	assert.Equal(t, "EUR", booking.Currency)

	req = f.createRequest(checkIn.Add(96*time.Hour), checkOut.Add(96*time.Hour))
	req.TotalAmount = -1
	_, err = f.svc.Create(context.Background(), f.user, req)
	assert.ErrorIs(t, err, repository.ErrValidation, "negative totals are rejected")
}

func TestRescheduleGuestCountOnly(t *testing.T) {
	f := newBookingFixture(t, 1)
	checkIn, checkOut := futureWindow(2, 2)

	booking, err := f.svc.Create(context.Background(), f.user, f.createRequest(checkIn, checkOut))
	require.NoError(t, err)

	guests := 1
	moved, err := f.svc.Reschedule(context.Background(), f.user, booking.ID, &request.RescheduleBookingRequest{
		NumGuests: &guests,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, moved.NumGuests)
	assert.Equal(t, booking.CheckIn.Unix(), moved.CheckIn.Unix(), "omitted dates keep the stored window")
	assert.Equal(t, booking.CheckOut.Unix(), moved.CheckOut.Unix())
	assert.Equal(t, booking.RoomID, moved.RoomID, "same window keeps the room")
}
