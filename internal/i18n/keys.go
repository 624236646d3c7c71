// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthAccessDenied       = "auth.access_denied"
	KeyAuthSignupSuccess      = "auth.signup_success"
	KeyAuthSigninSuccess      = "auth.signin_success"
	KeyUserNotFound           = "user.not_found"

	// Batches
	KeyBatchMinted      = "batch.minted"
	KeyBatchNotFound    = "batch.not_found"
	KeyBatchInvalidQR   = "batch.invalid_qr"
	KeyBatchTransferred = "batch.transferred"
	KeyBatchReceived    = "batch.received"

	// Custody verification
	KeyCustodyNotInWallet    = "custody.not_in_wallet"
	KeyCustodyOracleFailed   = "custody.oracle_failed"
	KeyCustodyNotVerified    = "custody.not_verified"
	KeyManufacturerNotFound  = "manufacturer.not_found"
	KeyPharmacyNotFound      = "pharmacy.not_found"

	// Shop
	KeyCartItemAdded    = "cart.item_added"
	KeyCartItemRemoved  = "cart.item_removed"
	KeyCartUpdated      = "cart.updated"
	KeyCartCleared      = "cart.cleared"
	KeyCartEmpty        = "cart.empty"
	KeyCartItemNotFound = "cart.item_not_found"
	KeyShopOutOfStock   = "shop.out_of_stock"
	KeyOrderCreated     = "order.created"
	KeyOrderNotFound    = "order.not_found"
	KeyOrderUpdated     = "order.updated"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"
)
