package model

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&Topic{},
		&TopicContentVersion{},
		&TopicCurrentVersion{},
		&DocumentSession{},
		&Document{},
	}
}
