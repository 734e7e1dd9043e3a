package routing

// RouteResponse ответ провайдера маршрутизации
type RouteResponse struct {
	Minutes        int     `json:"minutes"`
	DistanceMeters float64 `json:"distance_meters"`
}

// ErrorResponse модель ошибки от провайдера
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
