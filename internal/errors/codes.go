package errors

// Error code constants returned in the "error" field of failure responses.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these codes to their own
// display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or unsigned token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token displaced by re-issue or logout
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email uniqueness violation

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN" // policy denied the action

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Franchises (FRANCHISE_) ====================
	FranchiseNotFound     = "FRANCHISE_NOT_FOUND"
	FranchiseNameExists   = "FRANCHISE_NAME_EXISTS"
	FranchiseAdminUnknown = "FRANCHISE_ADMIN_UNKNOWN" // admin reference does not resolve to a user

	// ==================== Stores (STORE_) ====================
	StoreNotFound = "STORE_NOT_FOUND"

	// ==================== Menu (MENU_) ====================
	MenuItemNotFound = "MENU_ITEM_NOT_FOUND"
	MenuInvalidPrice = "MENU_INVALID_PRICE"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound    = "ORDER_NOT_FOUND"
	OrderEmptyItems  = "ORDER_EMPTY_ITEMS"
	OrderUnknownItem = "ORDER_UNKNOWN_ITEM" // line item references no menu entry

	// ==================== Factory (FACTORY_) ====================
	FactoryFulfillmentFailed = "FACTORY_FULFILLMENT_FAILED" // upstream rejected or unreachable

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
