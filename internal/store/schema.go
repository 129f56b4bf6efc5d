package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table layouts for the event log. Both tables share the event columns
// (sequence, timestamp) so rows from either can be merged in global order,
// and run_id ties the LLM calls of a generate run to the profile it saved.

const (
	llmRequestEventsTable = "llm_request_events"
	profileEventsTable    = "profile_events"
)

var (
	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "run_id", Type: field.TypeString, Default: ""},
		{Name: "outcome", Type: field.TypeString, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmRequestEventsTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{LLMRequestEventsColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{LLMRequestEventsColumns[9]}},
			{Name: "llmrequestevent_run_id", Columns: []*schema.Column{LLMRequestEventsColumns[13]}},
		},
	}

	// ProfileEventsColumns holds the columns for the "profile_events" table.
	ProfileEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "run_id", Type: field.TypeString},
		{Name: "profile_name", Type: field.TypeString},
		{Name: "slug", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "material_name", Type: field.TypeString, Default: ""},
		{Name: "requested_temp", Type: field.TypeInt},
		{Name: "nozzle_temp", Type: field.TypeInt},
		{Name: "bed_temp", Type: field.TypeInt},
		{Name: "fan_speed", Type: field.TypeInt},
		{Name: "fan_speed_min", Type: field.TypeInt},
		{Name: "fan_speed_max", Type: field.TypeInt},
		{Name: "flow_ratio", Type: field.TypeFloat64},
		{Name: "pressure_advance", Type: field.TypeFloat64},
		{Name: "output_path", Type: field.TypeString, Default: ""},
	}
	// ProfileEventsTable holds the schema information for the "profile_events" table.
	ProfileEventsTable = &schema.Table{
		Name:       profileEventsTable,
		Columns:    ProfileEventsColumns,
		PrimaryKey: []*schema.Column{ProfileEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "profileevent_timestamp", Columns: []*schema.Column{ProfileEventsColumns[2]}},
			{Name: "profileevent_slug", Columns: []*schema.Column{ProfileEventsColumns[5]}},
			{Name: "profileevent_source", Columns: []*schema.Column{ProfileEventsColumns[6]}},
			{Name: "profileevent_run_id", Columns: []*schema.Column{ProfileEventsColumns[3]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LLMRequestEventsTable,
		ProfileEventsTable,
	}
)
