package delete_external_note

// DeleteExternalNoteRequest HTTP request model
type DeleteExternalNoteRequest struct {
	ApartmentID string `json:"apartmentId" validate:"required"`
	ExternalID  string `json:"externalId" validate:"required"`
}
