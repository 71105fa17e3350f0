package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RoberSamy04/natours/internal/models"
)

func TestBookingService_CreateFromCheckout(t *testing.T) {
	t.Parallel()

	bookingRepo := newFakeBookingRepo()
	svc := NewBookingService(bookingRepo, newFakeTourRepo())

	tourID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	require.NoError(t, svc.CreateFromCheckout(context.Background(), tourID.Hex(), userID.Hex(), 497))

	require.Len(t, bookingRepo.bookings, 1)
	for _, b := range bookingRepo.bookings {
		assert.Equal(t, tourID, b.Tour)
		assert.Equal(t, userID, b.User)
		assert.Equal(t, 497.0, b.Price)
		assert.True(t, b.Paid)
	}
}

func TestBookingService_CreateFromCheckout_RejectsMalformedIDs(t *testing.T) {
	t.Parallel()

	svc := NewBookingService(newFakeBookingRepo(), newFakeTourRepo())

	err := svc.CreateFromCheckout(context.Background(), "not-hex", primitive.NewObjectID().Hex(), 497)
	assert.Error(t, err)

	err = svc.CreateFromCheckout(context.Background(), primitive.NewObjectID().Hex(), "not-hex", 497)
	assert.Error(t, err)
}

func TestBookingService_BookedTours(t *testing.T) {
	t.Parallel()

	bookingRepo := newFakeBookingRepo()
	tourRepo := newFakeTourRepo()
	svc := NewBookingService(bookingRepo, tourRepo)

	tour := &models.Tour{ID: primitive.NewObjectID(), Name: "The Sea Explorer"}
	require.NoError(t, tourRepo.Create(context.Background(), tour))

	userID := primitive.NewObjectID()
	require.NoError(t, svc.CreateFromCheckout(context.Background(), tour.ID.Hex(), userID.Hex(), 497))
	// Бронирование на удаленный тур пропускается, а не валит страницу
	require.NoError(t, svc.CreateFromCheckout(context.Background(), primitive.NewObjectID().Hex(), userID.Hex(), 100))

	tours, err := svc.BookedTours(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, "The Sea Explorer", tours[0].Name)
}
