package tenancyservice

// Tenancy ответ сервиса о привязке пользователя к квартире
type Tenancy struct {
	UserID int64  `json:"user_id"`
	UnitID *int64 `json:"unit_id,omitempty"`
	Active bool   `json:"active"`
}
