package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here so handlers can
// map them with errors.Is.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidTwoFactorCode = errors.New("invalid or expired two factor code")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong      = errors.New("password must be at most 128 characters")
	ErrWrongPassword        = errors.New("the current password is wrong")
	ErrInsufficientRights   = errors.New("insufficient rights")
	ErrGroveDisabled        = errors.New("grove is disabled")
)

// ===== User Errors =====
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("a user with this email already exists")
	ErrCannotChangeSelf   = errors.New("you cannot do this to yourself")
)

// ===== Grove Errors =====
var (
	ErrGroveNotFound   = errors.New("grove not found")
	ErrGroveNameExists = errors.New("a grove with this name already exists")
)

// ===== Character Errors =====
var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrCharacterExists   = errors.New("a character with this name already exists")
	ErrCrafterNotFound   = errors.New("crafter not found")
	ErrCrafterExists     = errors.New("the character already has this crafter job")
	ErrFighterNotFound   = errors.New("fighter not found")
	ErrFighterExists     = errors.New("the character already has this fighter job")
	ErrHousingNotFound   = errors.New("housing not found")
	ErrHousingExists     = errors.New("the character already has a housing at this address")
)

// ===== Free Company Errors =====
var (
	ErrFreeCompanyNotFound = errors.New("free company not found")
	ErrFreeCompanyExists   = errors.New("a free company with this name already exists")
)

// ===== Custom Field Errors =====
var (
	ErrCustomFieldNotFound = errors.New("custom field not found")
	ErrCustomFieldExists   = errors.New("a custom field with this label already exists")
	ErrOptionNotFound      = errors.New("custom field option not found")
	ErrOptionExists        = errors.New("the custom field already has this option")
)

// ===== Event Errors =====
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidDateRange = errors.New("the start date cannot be after the end date")
)

// ===== Mail Errors =====
var (
	ErrMailDelivery = errors.New("the mail could not be sent")
)
