package errors

// Error code constants.
// Errors carry code + structured field detail; messages stay short and
// English-only for logs.

// Glyph error codes.
const (
	CodeGlyphNotFound = "GLYPH_NOT_FOUND"
	CodeGlyphInUse    = "GLYPH_IN_USE"
)

// Transformation protocol / step error codes.
const (
	CodeProtocolNotFound = "PROTOCOL_NOT_FOUND"
	CodeProtocolInUse    = "PROTOCOL_IN_USE"
	CodeStepNotFound     = "STEP_NOT_FOUND"
	CodeStepOrderTaken   = "STEP_ORDER_TAKEN"
)

// Mission error codes.
const (
	CodeMissionNotFound  = "MISSION_NOT_FOUND"
	CodeLogEntryNotFound = "LOG_ENTRY_NOT_FOUND"
)

// Resonance / shield error codes.
const (
	CodeResonanceNotFound = "RESONANCE_NOT_FOUND"
	CodeShieldNotFound    = "SHIELD_NOT_FOUND"
	CodeModuleNotFound    = "HEALING_MODULE_NOT_FOUND"
)

// Validation error codes.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidReference = "INVALID_REFERENCE"
)

// Storage error codes.
const (
	CodeStorageFailure = "STORAGE_FAILURE"
)
