package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var tableArg = mcp.WithString("table",
	mcp.Required(),
	mcp.Enum("member", "team", "title"),
	mcp.Description("Table to read"),
)

var validateToolDef = mcp.NewTool("roster_validate",
	mcp.WithDescription("Load members, teams and titles and check row widths and every id reference. Returns row counts, or an INVALID_REFERENCE error whose details list every violation."),
)

var fetchToolDef = mcp.NewTool("roster_fetch",
	mcp.WithDescription("Fetch one record by id as a field -> value object."),
	tableArg,
	mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
)

var listToolDef = mcp.NewTool("roster_list",
	mcp.WithDescription("List the fields and every record of a table in file order."),
	tableArg,
)

var findToolDef = mcp.NewTool("roster_find",
	mcp.WithDescription("Find ids of records whose field contains a substring (case-sensitive)."),
	tableArg,
	mcp.WithString("field", mcp.Required(), mcp.Description("Field name")),
	mcp.WithString("substring", mcp.Description("Text to look for; empty matches every record")),
)

var addToolDef = mcp.NewTool("roster_add",
	mcp.WithDescription("Add a member. Reference fields must hold an existing id of the referenced table."),
	mcp.WithString("id", mcp.Required(), mcp.Description("New member id")),
	mcp.WithObject("values", mcp.Description("Field name -> value for the non-id fields; omitted fields are left empty")),
)

var updateToolDef = mcp.NewTool("roster_update",
	mcp.WithDescription("Change one field of a member. Without action the value is overwritten; add and remove edit a multi-value field."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Member id")),
	mcp.WithString("field", mcp.Required(), mcp.Description("Field name")),
	mcp.WithString("action", mcp.Enum("add", "remove"), mcp.Description("Multi-value action")),
	mcp.WithString("value", mcp.Required(), mcp.Description("New value, or the element to add or remove")),
)

var removeToolDef = mcp.NewTool("roster_remove",
	mcp.WithDescription("Remove a member. Removing an absent id reports removed=false."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Member id")),
)

var historyToolDef = mcp.NewTool("roster_history",
	mcp.WithDescription("List recorded mutations, newest first."),
	mcp.WithString("table", mcp.Enum("member", "team", "title"), mcp.Description("Only entries for this table")),
	mcp.WithString("record_id", mcp.Description("Only entries for this record")),
	mcp.WithNumber("limit", mcp.Description("Max entries (default 20, max 500)")),
)
