package paymentprovider

// Статусы оплаты сессии, как их сообщает шлюз.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// Session — проекция сессии оплаты платёжного шлюза на поля,
// используемые приложением.
type Session struct {
	ID            string            // Идентификатор сессии на стороне шлюза
	URL           string            // Ссылка на страницу оплаты
	PaymentStatus string            // paid, unpaid или no_payment_required
	Metadata      map[string]string // Метаданные, привязанные при создании
}

// Paid сообщает, что шлюз зафиксировал успешную оплату сессии.
func (s *Session) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}
