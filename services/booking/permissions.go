package booking

import (
	"slotwise/models"
	"slotwise/utils"
)

type operation string

const (
	opCreate     operation = "create"
	opCancel     operation = "cancel"
	opComplete   operation = "complete"
	opReschedule operation = "reschedule"
	opView       operation = "view"
)

// capability is the set of relationships an actor has to a booking.
type capability uint8

const (
	capClientOwner capability = 1 << iota
	capProviderOwner
	capAdmin
)

// permissionTable lists, per operation, the capabilities any one of which
// grants access.
var permissionTable = map[operation]capability{
	opCreate:     capClientOwner,
	opCancel:     capClientOwner | capProviderOwner | capAdmin,
	opComplete:   capProviderOwner | capAdmin,
	opReschedule: capClientOwner | capProviderOwner,
	opView:       capClientOwner | capProviderOwner | capAdmin,
}

func capabilitiesOf(actor models.Actor, clientID, providerUserID string) capability {
	var caps capability
	if actor.UserID == "" {
		return caps
	}
	if actor.Role == models.RoleClient && actor.UserID == clientID {
		caps |= capClientOwner
	}
	if actor.Role == models.RoleProvider && actor.UserID == providerUserID {
		caps |= capProviderOwner
	}
	if actor.IsAdmin() {
		caps |= capAdmin
	}
	return caps
}

func allowed(op operation, caps capability) bool {
	return permissionTable[op]&caps != 0
}

func authorize(op operation, actor models.Actor, b *models.Booking) error {
	if !allowed(op, capabilitiesOf(actor, b.ClientID, b.ProviderUserID)) {
		return utils.NewForbiddenError("%s may not %s booking %s", actor.Role, op, b.ID)
	}
	return nil
}
