// Package docs Cosmogony Cities API.
//
// Read API над таблицей administrative_regions, которую заполняет импорт городов
// из выгрузки cosmogony.
//
// Основные возможности:
// - Получение города по ID
// - Поиск города по координатам (самая маленькая граница, содержащая точку)
// - Статистика по загруженным данным
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
