package domain

import "github.com/m04kA/SMC-ApartmentCalendar/pkg/types"

// Business validation constants
const (
	MaxNoteLength       = 500
	MaxExternalIDLength = 255
)

// DateFormat is the wire and log format of booking dates (YYYY-MM-DD)
const DateFormat = types.DateLayout

// DefaultCreatedBy is stored when a writer does not identify itself
const DefaultCreatedBy = "admin"

// ExternalIDPrefix prefixes booking ids materialized from feeds so they never clash with manual ids
const ExternalIDPrefix = "ext-"
