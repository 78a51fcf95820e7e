// Package pickuppoint provides the PickupPoint entity: the local office a
// client collects parcels from. Pickup points are reference data maintained
// outside the flow engine; the core only reads them to compose arrival
// messages for second-scan ledger entries.
package pickuppoint

import (
	"errors"
	"regexp"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/errs"
)

// ErrPickupPointIsNotConstructed is returned when a PickupPoint instance was
// not created through NewPickupPoint or RestorePickupPoint.
var ErrPickupPointIsNotConstructed = errors.New(
	"PickupPoint must be created via NewPickupPoint or RestorePickupPoint constructor")

// phonePattern matches E.164-style numbers: a plus sign and 6-15 digits.
var phonePattern = regexp.MustCompile(`^\+\d{6,15}$`)

// PickupPoint is a local office where parcels are handed over to clients.
// Address and phone are optional; inactive points are hidden from clients
// but remain referencable by historical data.
type PickupPoint struct {
	id       kernel.UUID
	name     string
	address  string
	phone    string
	isActive bool

	isConstructed bool
}

// NewPickupPoint creates an active pickup point.
// Name is required; phone, when present, must be "+<digits>" (6-15 digits).
func NewPickupPoint(id kernel.UUID, name, address, phone string) (*PickupPoint, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, errs.NewValueIsInvalidError("phone")
	}

	return &PickupPoint{
		id:            id,
		name:          name,
		address:       address,
		phone:         phone,
		isActive:      true,
		isConstructed: true,
	}, nil
}

// RestorePickupPoint reconstructs a pickup point from persistence.
func RestorePickupPoint(id kernel.UUID, name, address, phone string, isActive bool) (*PickupPoint, error) {
	point, err := NewPickupPoint(id, name, address, phone)
	if err != nil {
		return nil, err
	}

	point.isActive = isActive
	return point, nil
}

// Validate ensures the PickupPoint instance was properly constructed.
func (p *PickupPoint) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPickupPointIsNotConstructed
	}
	return nil
}

// ID returns the pickup point's unique identifier.
func (p *PickupPoint) ID() kernel.UUID {
	return p.id
}

// Name returns the display name of the pickup point.
func (p *PickupPoint) Name() string {
	return p.name
}

// Address returns the street address, possibly empty.
func (p *PickupPoint) Address() string {
	return p.address
}

// Phone returns the contact phone, possibly empty.
func (p *PickupPoint) Phone() string {
	return p.phone
}

// IsActive reports whether the point currently serves clients.
func (p *PickupPoint) IsActive() bool {
	return p.isActive
}

// Deactivate hides the point from clients without deleting it.
func (p *PickupPoint) Deactivate() {
	p.isActive = false
}
