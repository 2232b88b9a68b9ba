package geocoder

import "errors"

var (
	// ErrAddressNotFound возвращается, когда геокодер не нашёл адрес
	ErrAddressNotFound = errors.New("geocoder client: address not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("geocoder client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("geocoder client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что геокодер недоступен и слот следует сохранить без координат
	ErrServiceDegraded = errors.New("geocoder unavailable: graceful degradation applied")
)
