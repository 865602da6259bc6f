package record

// Tag identifies the data source a record came from.
type Tag string

const (
	TagSQL  Tag = "sql"
	TagAPI  Tag = "api"
	TagFile Tag = "file"
)

// DefaultPriority is the source priority used for field-level conflict
// resolution during merge: earlier tags win.
var DefaultPriority = []Tag{TagSQL, TagAPI, TagFile}

// Field names the recognized user attributes. The set is closed: the
// query vocabulary, the adapters, and the formatter all reject or ignore
// anything outside it.
type Field string

const (
	FieldID         Field = "id"
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldRegion     Field = "region"
	FieldSignupDate Field = "signup_date"

	// FieldAPIPath is the path-scoped condition namespace ("api path
	// /users"). It is never a user attribute; only the REST adapter
	// stamps it onto records, so path conditions match nothing else.
	FieldAPIPath Field = "path"
)

// EntityFields lists the user attributes in canonical column order.
var EntityFields = []Field{FieldID, FieldName, FieldEmail, FieldRegion, FieldSignupDate}

// Fields maps field names to their string representation. Dates are held
// as ISO YYYY-MM-DD strings; ids as decimal strings. Absent fields are
// simply not present in the map.
type Fields map[Field]string

// Clone returns a shallow copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// SourceRecord is one matching row/entity as returned by a single
// adapter. It is immutable once created and discarded after merge.
type SourceRecord struct {
	Source Tag
	Fields Fields
}

// UnifiedRecord is the merge of all SourceRecords sharing an identity
// key. Fields hold, per field, the value from the highest-priority
// contributing source that defines it. Sources lists the contributing
// tags in priority order.
type UnifiedRecord struct {
	Key     Key
	Fields  Fields
	Sources []Tag
}
