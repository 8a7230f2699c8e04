package booking

import (
	"context"
	"testing"

	"slotwise/models"
	"slotwise/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain books 09:00 and moves it to 10:00 then 11:00.
func chain(t *testing.T, f *fixture) (b1, b2, b3 *models.Booking) {
	t.Helper()
	b1 = f.book(t, "09:00")
	r1, err := f.engine.RescheduleBooking(context.Background(), clientActor, b1.ID, moveTo("10:00"))
	require.NoError(t, err)
	r2, err := f.engine.RescheduleBooking(context.Background(), providerActor, r1.New.ID, moveTo("11:00"))
	require.NoError(t, err)
	return r1.Old, r1.New, r2.New
}

func TestGetHistory_MiddleOfChain(t *testing.T) {
	f := newFixture(t)
	b1, b2, b3 := chain(t, f)

	h, err := f.engine.GetHistory(context.Background(), clientActor, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, b1.ID, h.RootID)
	assert.Equal(t, b2.ID, h.RequestedID)
	assert.Equal(t, b3.ID, h.LatestID)
	assert.Equal(t, 1, h.CurrentIndex)
	require.Len(t, h.Items, 3)
	assert.Equal(t, []string{b1.ID, b2.ID, b3.ID}, []string{h.Items[0].ID, h.Items[1].ID, h.Items[2].ID})
}

func TestGetHistory_EndsOfChain(t *testing.T) {
	f := newFixture(t)
	b1, _, b3 := chain(t, f)

	h, err := f.engine.GetHistory(context.Background(), adminActor, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, h.CurrentIndex)
	assert.Equal(t, b3.ID, h.LatestID)

	h, err = f.engine.GetHistory(context.Background(), providerActor, b3.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, h.CurrentIndex)
	assert.Equal(t, b1.ID, h.RootID)
}

func TestGetHistory_SingleBooking(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "09:00")

	h, err := f.engine.GetHistory(context.Background(), clientActor, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, h.RootID)
	assert.Equal(t, b.ID, h.LatestID)
	assert.Equal(t, 0, h.CurrentIndex)
	assert.Len(t, h.Items, 1)
}

func TestGetHistory_AccessRules(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "09:00")

	_, err := f.engine.GetHistory(context.Background(), otherClient, b.ID)
	requireKind(t, err, utils.KindForbidden)

	_, err = f.engine.GetHistory(context.Background(), clientActor, "missing")
	requireKind(t, err, utils.KindNotFound)
}

func seed(f *fixture, id, from, to string) {
	b := models.Booking{
		ID:                id,
		ProviderUserID:    providerActor.UserID,
		ClientID:          clientActor.UserID,
		Status:            models.BookingStatusCancelled,
		RescheduledFromID: from,
		RescheduledToID:   to,
	}
	b.SetInterval(at("09:00"), 30)
	f.bookings.Put(b)
}

func TestGetHistory_DanglingLinkIsCorruption(t *testing.T) {
	f := newFixture(t)
	seed(f, "b2", "ghost", "")

	_, err := f.engine.GetHistory(context.Background(), clientActor, "b2")
	requireKind(t, err, utils.KindChainCorruption)
}

func TestGetHistory_CycleIsCorruption(t *testing.T) {
	f := newFixture(t)
	seed(f, "x", "y", "y")
	seed(f, "y", "x", "x")

	_, err := f.engine.GetHistory(context.Background(), clientActor, "x")
	requireKind(t, err, utils.KindChainCorruption)
}

func TestGetHistory_DepthBound(t *testing.T) {
	f := newFixture(t)
	f.engine.Options.MaxHistoryDepth = 3
	seed(f, "c0", "", "c1")
	seed(f, "c1", "c0", "c2")
	seed(f, "c2", "c1", "c3")
	seed(f, "c3", "c2", "c4")
	seed(f, "c4", "c3", "")

	_, err := f.engine.GetHistory(context.Background(), clientActor, "c4")
	requireKind(t, err, utils.KindChainCorruption)

	f.engine.Options.MaxHistoryDepth = 4
	h, err := f.engine.GetHistory(context.Background(), clientActor, "c2")
	require.NoError(t, err)
	assert.Len(t, h.Items, 5)
	assert.Equal(t, 2, h.CurrentIndex)
}
