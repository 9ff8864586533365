package booking

// The status graph and who may walk each edge:
//
//	pending  -> approved | rejected   (resource owner, staff, admin)
//	pending  -> cancelled             (requester)
//	approved -> cancelled             (requester, resource owner, staff, admin)
//	approved -> completed             (resource owner, staff, admin; interval elapsed)
//
// rejected, cancelled and completed are terminal.

// InitialStatus decides the status a new booking starts in. Owners and staff
// skip the approval queue; so does everyone else when the resource does not
// require approval.
func InitialStatus(actor Actor, requiresApproval bool) Status {
	if actor.CanManage() || !requiresApproval {
		return StatusApproved
	}
	return StatusPending
}

// ValidateTransition checks that moving b to the target status is legal and
// that the actor is allowed to trigger it. The order matters: an impossible
// edge reports ErrInvalidStatus even for admins, a possible edge without the
// right actor reports ErrPermissionDenied.
func ValidateTransition(b *Booking, to Status, actor Actor) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}

	isRequester := b.RequesterID == actor.UserID

	switch {
	case b.Status == StatusPending && (to == StatusApproved || to == StatusRejected):
		if !actor.CanManage() {
			return ErrPermissionDenied
		}
	case b.Status == StatusPending && to == StatusCancelled:
		if !isRequester {
			return ErrPermissionDenied
		}
	case b.Status == StatusApproved && to == StatusCancelled:
		if !isRequester && !actor.CanManage() {
			return ErrPermissionDenied
		}
	case b.Status == StatusApproved && to == StatusCompleted:
		if !actor.CanManage() {
			return ErrPermissionDenied
		}
	default:
		return ErrInvalidStatus
	}

	return nil
}

// FreesSlot reports whether a transition vacates a held interval, meaning the
// waitlist must be consulted.
func FreesSlot(from, to Status) bool {
	return from.HoldsSlot() && (to == StatusRejected || to == StatusCancelled)
}
