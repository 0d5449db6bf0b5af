package domain

// Caller аутентифицированный инициатор операции
type Caller struct {
	UserID  int64
	IsStaff bool   // административная роль: может отменять и переносить чужие бронирования
	IP      string // для журнала аудита
}

// CanManage returns true if the caller owns the reservation or has the staff override
func (c Caller) CanManage(r *Reservation) bool {
	return c.IsStaff || r.IsOwnedBy(c.UserID)
}
