// Package model defines the domain entities and request types of the
// bambushain API.
//
// # Domain Entities
//
//   - Grove: a tenant. Users, characters and events belong to exactly one grove
//   - User: a grove member, optionally with the mod flag
//   - Character: a player character with crafter, fighter and housing entries
//   - CustomField: user defined character attributes with selectable options
//   - Event: a calendar entry, either visible to the grove or private
//
// # Requests
//
// Request types carry validator/v10 struct tags. Checks that span more than
// one field live in a Validate method returning []FieldError.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go.
package model
