package postgre

const (
	getRecordQuery = `
		SELECT delivery_id, event_type, processed_at, expires_at
		FROM webhook_deliveries
		WHERE delivery_id = $1 AND expires_at > NOW()`

	putRecordQuery = `
		INSERT INTO webhook_deliveries (delivery_id, event_type, processed_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (delivery_id) DO UPDATE
		SET event_type = EXCLUDED.event_type,
		    processed_at = EXCLUDED.processed_at,
		    expires_at = EXCLUDED.expires_at`

	purgeExpiredQuery = `DELETE FROM webhook_deliveries WHERE expires_at <= NOW()`
)
