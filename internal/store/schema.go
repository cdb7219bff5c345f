package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// eventColumns returns the id, sequence and created_at columns every event
// table starts with.
func eventColumns(rest ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
	}, rest...)
}

var (
	sessionEventsColumns = eventColumns(
		&schema.Column{Name: "session_key", Type: field.TypeString},
		&schema.Column{Name: "interview_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "candidate_email", Type: field.TypeString},
		&schema.Column{Name: "band", Type: field.TypeString},
		&schema.Column{Name: "overall_percent", Type: field.TypeFloat64},
		&schema.Column{Name: "summary", Type: field.TypeString, Size: 2147483647},
	)
	sessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_interview_id_action", Columns: []*schema.Column{sessionEventsColumns[4], sessionEventsColumns[5]}},
		},
	}

	answerEventsColumns = eventColumns(
		&schema.Column{Name: "session_key", Type: field.TypeString},
		&schema.Column{Name: "interview_id", Type: field.TypeString},
		&schema.Column{Name: "question_id", Type: field.TypeString},
		&schema.Column{Name: "skill", Type: field.TypeString},
		&schema.Column{Name: "kind", Type: field.TypeString},
		&schema.Column{Name: "answer", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "score", Type: field.TypeFloat64},
		&schema.Column{Name: "max_score", Type: field.TypeFloat64},
		&schema.Column{Name: "feedback", Type: field.TypeString, Size: 2147483647},
	)
	answerEventsTable = &schema.Table{
		Name:       "answer_events",
		Columns:    answerEventsColumns,
		PrimaryKey: []*schema.Column{answerEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_interview_id", Columns: []*schema.Column{answerEventsColumns[4]}},
		},
	}

	hintEventsColumns = eventColumns(
		&schema.Column{Name: "session_key", Type: field.TypeString},
		&schema.Column{Name: "interview_id", Type: field.TypeString},
		&schema.Column{Name: "question_id", Type: field.TypeString},
		&schema.Column{Name: "skill", Type: field.TypeString},
		&schema.Column{Name: "hint", Type: field.TypeString, Size: 2147483647},
	)
	hintEventsTable = &schema.Table{
		Name:       "hint_events",
		Columns:    hintEventsColumns,
		PrimaryKey: []*schema.Column{hintEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "hintevent_interview_id", Columns: []*schema.Column{hintEventsColumns[4]}},
		},
	}

	requestEventsColumns = eventColumns(
		&schema.Column{Name: "operation", Type: field.TypeString},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "status_code", Type: field.TypeInt},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Size: 2147483647},
	)
	requestEventsTable = &schema.Table{
		Name:       "request_events",
		Columns:    requestEventsColumns,
		PrimaryKey: []*schema.Column{requestEventsColumns[0]},
	}

	// tables lists every table created on Open.
	tables = []*schema.Table{
		sessionEventsTable,
		answerEventsTable,
		hintEventsTable,
		requestEventsTable,
	}
)
