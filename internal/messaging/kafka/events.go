package kafka

// Topics для событий жизненного цикла.
const (
	// TopicOrderEvents принимает события заказов: оформление, принятие,
	// ручную правку статуса.
	TopicOrderEvents = "ims.order.events"
	// TopicInvoiceEvents принимает события счетов и массовой очистки.
	TopicInvoiceEvents = "ims.invoice.events"
)

// TopicForAggregate возвращает topic для типа агрегата outbox-сообщения.
// Неизвестные агрегаты уходят в topic заказов.
func TopicForAggregate(aggregateType string) string {
	switch aggregateType {
	case "invoice", "store":
		return TopicInvoiceEvents
	default:
		return TopicOrderEvents
	}
}
