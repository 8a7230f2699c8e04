package booking

import (
	"testing"

	"slotwise/models"

	"github.com/stretchr/testify/assert"
)

func TestPermissionTable(t *testing.T) {
	b := &models.Booking{ID: "b", ClientID: clientActor.UserID, ProviderUserID: providerActor.UserID}

	tests := []struct {
		op      operation
		actor   models.Actor
		allowed bool
	}{
		{opCancel, clientActor, true},
		{opCancel, providerActor, true},
		{opCancel, adminActor, true},
		{opCancel, otherClient, false},
		{opComplete, clientActor, false},
		{opComplete, providerActor, true},
		{opComplete, adminActor, true},
		{opReschedule, clientActor, true},
		{opReschedule, providerActor, true},
		{opReschedule, adminActor, false},
		{opView, otherClient, false},
		{opView, adminActor, true},
		{opCreate, clientActor, true},
		{opCreate, providerActor, false},
		// a provider id presented with the client role grants nothing
		{opComplete, models.Actor{UserID: providerActor.UserID, Role: models.RoleClient}, false},
		{opView, models.Actor{Role: models.RoleClient}, false},
	}
	for _, tt := range tests {
		err := authorize(tt.op, tt.actor, b)
		assert.Equal(t, tt.allowed, err == nil, "%s by %s/%s", tt.op, tt.actor.Role, tt.actor.UserID)
	}
}
