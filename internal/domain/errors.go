package domain

import "errors"

// Invariant violations are fatal: they indicate a modeling bug, never a
// recoverable runtime condition, since every input is self-generated and
// bounded by construction. Stage validators wrap these with row context.
var (
	ErrNegativeStock          = errors.New("negative on-hand stock")
	ErrReservedExceedsOnHand  = errors.New("reserved quantity exceeds on-hand")
	ErrOverDelivery           = errors.New("delivered quantity exceeds ordered quantity")
	ErrDeliveryBeforeDispatch = errors.New("actual delivery precedes dispatch")
	ErrDispatchBeforeOrder    = errors.New("dispatch does not follow order date")
	ErrZeroQuantity           = errors.New("order quantity below 1")
	ErrNegativeRainfall       = errors.New("negative rainfall")
	ErrInvalidStormFlag       = errors.New("storm flag outside {0,1}")
	ErrUnknownSKU             = errors.New("unknown SKU")
	ErrUnknownRegion          = errors.New("unknown region")
	ErrMissingField           = errors.New("missing required field")
	ErrOrphanShipment         = errors.New("shipment without originating order")
)
