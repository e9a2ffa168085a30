package log

const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	FieldService = "service"

	FieldUserID    = "user_id"
	FieldRoomID    = "room_id"
	FieldMessageID = "message_id"
	FieldRoomKind  = "room_kind"
	FieldEventID   = "event_id"
)
