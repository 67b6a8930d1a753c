package utils

// ValidateCoordinates проверяет валидность координат WGS84
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
