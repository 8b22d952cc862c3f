package sim

import "fmt"

// NoHolder marks a free resource; NoResource marks an idle consumer.
const (
	NoHolder   = -1
	NoResource = -1
)

// Resource is a passive, exclusive-use slot in the commons.
// Occupied and HolderID change together, only via Acquire and Release.
type Resource struct {
	ID       int
	Occupied bool
	HolderID int // consumer ID, or NoHolder
}

// NewResource creates a free resource.
func NewResource(id int) *Resource {
	return &Resource{ID: id, HolderID: NoHolder}
}

// Acquire marks the resource as held by consumerID.
// Returns an ErrInvariantViolation error, leaving state unchanged, if it is already occupied.
// The caller must mirror the hold on the consumer in the same step.
func (r *Resource) Acquire(consumerID int) error {
	if r.Occupied {
		return fmt.Errorf("%w: resource %d already held by consumer %d, requested by %d",
			ErrInvariantViolation, r.ID, r.HolderID, consumerID)
	}
	r.Occupied = true
	r.HolderID = consumerID
	return nil
}

// Release frees the resource.
// Returns an ErrInvariantViolation error, leaving state unchanged, if it is not occupied.
func (r *Resource) Release() error {
	if !r.Occupied {
		return fmt.Errorf("%w: resource %d released while free", ErrInvariantViolation, r.ID)
	}
	r.Occupied = false
	r.HolderID = NoHolder
	return nil
}

// consistent reports whether Occupied agrees with HolderID.
func (r *Resource) consistent() bool {
	return r.Occupied == (r.HolderID != NoHolder)
}

// String returns a human-readable representation of a Resource.
func (r Resource) String() string {
	return fmt.Sprintf("Resource: (ID: %d, Occupied: %v, Holder: %d)", r.ID, r.Occupied, r.HolderID)
}
