package geocoder

// Location результат геокодирования адреса
// Nominatim отдаёт координаты строками
type Location struct {
	Longitude   string `json:"lon"`
	Latitude    string `json:"lat"`
	DisplayName string `json:"display_name"`
}
