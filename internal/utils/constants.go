package utils

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1
)

// Ride constraints
const (
	MaxSeatCapacity   = 8
	MaxRequestMessage = 500
	MaxMessageLength  = 1000
)

// Fare defaults, used when the driver supplies no vehicle profile.
const (
	DefaultFuelEfficiencyKmPerLiter = 12.0
	DefaultFuelPricePerLiter        = 1.5
	DefaultExtraCostPerKm           = 0.1
	DefaultWearAndTearPerKm         = 0.15
	DefaultCostPerHour              = 10.0
	DefaultTimeValuePerHour         = 8.0
	DefaultProfitMargin             = 0.10
)

// Rating bounds
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Response status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrValidationFailed = "validation failed"
)
