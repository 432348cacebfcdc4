package table

import (
	"errors"
	"sort"
	"strings"
)

// Table names in the remote store.
const (
	Users                   = "users"
	PricingPlans            = "pricing_plans"
	Events                  = "events"
	TrainingSessions        = "training_sessions"
	BlogPosts               = "blog_posts"
	ContactInquiries        = "contact_inquiries"
	NewsletterSubscriptions = "newsletter_subscriptions"
	Registrations           = "registrations"
	AdminActivity           = "admin_activity"
)

// IDColumn is the identifier column every table carries.
const IDColumn = "id"

// Kind describes how a column is edited in the back-office forms.
type Kind string

const (
	KindText     Kind = "text"
	KindLongText Kind = "longtext"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindDateTime Kind = "datetime"
	KindList     Kind = "list"
	KindJSON     Kind = "json"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrEmptyName    = errors.New("table name cannot be empty")
	ErrNoColumns    = errors.New("table schema must list at least one column")
)

// Column is one column of a table schema.
type Column struct {
	Name     string
	Label    string
	Kind     Kind
	ReadOnly bool // set by the store (id, timestamps)
	Required bool
	Nullable bool // clearing the field stores NULL rather than the zero value
}

// Schema lists the columns of one table in display order.
type Schema struct {
	Name    string
	Label   string
	Columns []Column
}

// Validate checks the schema is usable by the data-table.
// PRE: none
// POST: Returns nil if name and columns are present
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Columns) == 0 {
		return ErrNoColumns
	}
	return nil
}

// ColumnNames returns the column names in display order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Editable returns the columns shown on add/edit forms.
func (s Schema) Editable() []Column {
	var cols []Column
	for _, c := range s.Columns {
		if !c.ReadOnly {
			cols = append(cols, c)
		}
	}
	return cols
}

// Column looks up a column by name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Registry maps table names to their schemas.
// INVARIANT: Tables() preserves registration order (sidebar order).
type Registry struct {
	schemas map[string]Schema
	order   []string
}

// NewRegistry builds a registry from the given schemas. Later duplicates replace earlier ones.
func NewRegistry(schemas ...Schema) *Registry {
	r := &Registry{schemas: make(map[string]Schema, len(schemas))}
	for _, s := range schemas {
		if _, exists := r.schemas[s.Name]; !exists {
			r.order = append(r.order, s.Name)
		}
		r.schemas[s.Name] = s
	}
	return r
}

// Lookup returns the schema for a table.
func (r *Registry) Lookup(name string) (Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Tables returns all schemas in registration order.
func (r *Registry) Tables() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.schemas[name])
	}
	return out
}

// Known reports whether a table is registered.
func (r *Registry) Known(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

// IntrospectColumns derives a column list from a row's keys: id first, the rest sorted.
// Used when a table has no registered schema.
func IntrospectColumns(row map[string]any) []string {
	if len(row) == 0 {
		return nil
	}
	cols := make([]string, 0, len(row))
	hasID := false
	for k := range row {
		if k == IDColumn {
			hasID = true
			continue
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	if hasID {
		cols = append([]string{IDColumn}, cols...)
	}
	return cols
}

func idColumn() Column {
	return Column{Name: IDColumn, Label: "ID", Kind: KindNumber, ReadOnly: true}
}

func createdAt() Column {
	return Column{Name: "created_at", Label: "Created", Kind: KindDateTime, ReadOnly: true}
}

// DefaultRegistry returns the schemas of every table the back-office manages.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Schema{Name: Users, Label: "Users", Columns: []Column{
			idColumn(),
			{Name: "email", Label: "Email", Kind: KindText, Required: true},
			{Name: "name", Label: "Name", Kind: KindText},
			{Name: "role", Label: "Role", Kind: KindText},
			createdAt(),
		}},
		Schema{Name: PricingPlans, Label: "Pricing plans", Columns: []Column{
			idColumn(),
			{Name: "name", Label: "Name", Kind: KindText, Required: true},
			{Name: "price", Label: "Price", Kind: KindNumber, Required: true},
			{Name: "currency", Label: "Currency", Kind: KindText},
			{Name: "period", Label: "Period", Kind: KindText},
			{Name: "features", Label: "Features", Kind: KindList},
			{Name: "is_popular", Label: "Popular", Kind: KindBool},
			{Name: "badge", Label: "Badge", Kind: KindText},
		}},
		Schema{Name: Events, Label: "Events", Columns: []Column{
			idColumn(),
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "description", Label: "Description", Kind: KindLongText},
			{Name: "event_date", Label: "Start date", Kind: KindDateTime, Required: true},
			{Name: "location", Label: "Location", Kind: KindText},
			{Name: "capacity", Label: "Capacity", Kind: KindNumber},
			{Name: "price", Label: "Price", Kind: KindNumber},
			{Name: "status", Label: "Status", Kind: KindText},
			{Name: "registration_fields", Label: "Registration fields", Kind: KindList},
			{Name: "image_url", Label: "Image URL", Kind: KindText},
			createdAt(),
		}},
		Schema{Name: TrainingSessions, Label: "Training sessions", Columns: []Column{
			idColumn(),
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "instructor", Label: "Instructor", Kind: KindText},
			{Name: "level", Label: "Level", Kind: KindText},
			{Name: "schedule", Label: "Schedule", Kind: KindText},
			{Name: "capacity", Label: "Capacity", Kind: KindNumber},
			{Name: "current_enrollment", Label: "Enrolled", Kind: KindNumber},
			{Name: "price", Label: "Price", Kind: KindNumber},
			{Name: "status", Label: "Status", Kind: KindText},
			{Name: "image_url", Label: "Image URL", Kind: KindText},
			createdAt(),
		}},
		Schema{Name: BlogPosts, Label: "Blog posts", Columns: []Column{
			idColumn(),
			{Name: "title", Label: "Title", Kind: KindText, Required: true},
			{Name: "slug", Label: "Slug", Kind: KindText},
			{Name: "excerpt", Label: "Excerpt", Kind: KindLongText},
			{Name: "content", Label: "Content", Kind: KindLongText},
			{Name: "category", Label: "Category", Kind: KindText},
			{Name: "author", Label: "Author", Kind: KindText},
			{Name: "read_time", Label: "Read time (min)", Kind: KindNumber},
			{Name: "published", Label: "Published", Kind: KindBool},
			{Name: "image_url", Label: "Image URL", Kind: KindText},
			createdAt(),
			{Name: "updated_at", Label: "Updated", Kind: KindDateTime, ReadOnly: true},
		}},
		Schema{Name: ContactInquiries, Label: "Inquiries", Columns: []Column{
			idColumn(),
			{Name: "name", Label: "Name", Kind: KindText, Required: true},
			{Name: "email", Label: "Email", Kind: KindText, Required: true},
			{Name: "phone", Label: "Phone", Kind: KindText},
			{Name: "subject", Label: "Subject", Kind: KindText},
			{Name: "message", Label: "Message", Kind: KindLongText},
			createdAt(),
		}},
		Schema{Name: NewsletterSubscriptions, Label: "Newsletter", Columns: []Column{
			idColumn(),
			{Name: "email", Label: "Email", Kind: KindText, Required: true},
			{Name: "subscribed_at", Label: "Subscribed", Kind: KindDateTime, ReadOnly: true},
		}},
		Schema{Name: Registrations, Label: "Registrations", Columns: []Column{
			idColumn(),
			{Name: "event_id", Label: "Event", Kind: KindNumber, Nullable: true},
			{Name: "training_id", Label: "Training", Kind: KindNumber, Nullable: true},
			{Name: "registration_data", Label: "Details", Kind: KindJSON},
			{Name: "status", Label: "Status", Kind: KindText},
			createdAt(),
		}},
	)
}
