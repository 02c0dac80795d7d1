package query

type WorkspaceQuery struct {
	Query
}

func (q *WorkspaceQuery) WhereMap() map[string]interface{} {
	return map[string]interface{}{}
}

type ChannelQuery struct {
	Query

	IsPrivate *bool
}

func (q *ChannelQuery) WhereMap() map[string]interface{} {
	maps := make(map[string]interface{})
	if q.IsPrivate != nil {
		maps["is_private"] = *q.IsPrivate
	}
	return maps
}

type ScheduledMessageQuery struct {
	Query

	ChannelID *string
	Status    *string
}

func (q *ScheduledMessageQuery) WhereMap() map[string]interface{} {
	maps := make(map[string]interface{})
	if q.ChannelID != nil {
		maps["channel_id"] = *q.ChannelID
	}
	if q.Status != nil {
		maps["status"] = *q.Status
	}
	return maps
}
