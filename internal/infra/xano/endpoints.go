package xano

// Xano groups endpoints by workspace API group; the opaque group segments
// below are part of the hosted backend's URL contract.
const (
	pathLogin             = "/api:Is1L6GFg/auth/login"
	pathRegister          = "/api:Is1L6GFg/auth/register"
	pathVerify            = "/api:Is1L6GFg/auth/verify"
	pathUpdateProfile     = "/api:Is1L6GFg/auth/update_profile"
	pathChangePassword    = "/api:Is1L6GFg/auth/change-password"
	pathGetAPIKey         = "/api:Is1L6GFg/get_api_key"
	pathRegenerateAPIKey  = "/api:Is1L6GFg/api-keys/regenerate"
	pathCreditsBalance    = "/api:Is1L6GFg/credits/balance"
	pathValidateSingle    = "/api:T86UHsBm/leads/validate"
	pathValidateAgent     = "/api:T86UHsBm/leads/validate_agent"
	pathValidationHistory = "/api:T86UHsBm/validations/history"
	pathValidationExport  = "/api:T86UHsBm/validations/export"
	pathBatchUploadCSV    = "/api:ZnbSzzpu/batch/upload-csv"
	pathBatchProcess      = "/api:ZnbSzzpu/batch/process"
	pathBatchStatus       = "/api:ZnbSzzpu/batch/status"
)
