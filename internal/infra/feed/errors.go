package feed

import "errors"

var (
	// ErrFetch канал недоступен и в кеше нет сохранённого тела
	ErrFetch = errors.New("feed: fetch failed")
	// ErrParse тело канала не является корректным календарём
	ErrParse = errors.New("feed: malformed calendar")
	// ErrEmptyURL у квартиры не настроен канал
	ErrEmptyURL = errors.New("feed: url is empty")
)
