package entitlement

import "errors"

var (
	ErrEntitlementNotFound      = errors.New("entitlement not found")
	ErrEntitlementAlreadyExists = errors.New("entitlement already exists")

	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrPlanExpired         = errors.New("subscription plan expired")

	ErrInvalidPlan        = errors.New("invalid subscription plan")
	ErrPlanNotPurchasable = errors.New("plan is not purchasable")
	ErrInvalidCatalog     = errors.New("invalid plan catalog")
	ErrMissingAccountID   = errors.New("account ID is required")

	ErrFailedToLoadCatalog = errors.New("failed to load plan catalog")
	ErrStoreUnavailable    = errors.New("entitlement store unavailable")
)
