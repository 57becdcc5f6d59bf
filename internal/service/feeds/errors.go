package feeds

import "errors"

var (
	// ErrApartmentNotFound квартира с таким ключом не настроена
	ErrApartmentNotFound = errors.New("feeds: apartment not found")
	// ErrNoFeed у квартиры нет iCal-канала
	ErrNoFeed = errors.New("feeds: apartment has no feed")
	// ErrFeedUnavailable канал не удалось получить ни из сети, ни из кеша
	ErrFeedUnavailable = errors.New("feeds: feed unavailable")
)
