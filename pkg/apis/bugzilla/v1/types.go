package v1

// Bug is the typed view of a bug record after post-translation. The
// server returns records as loose field maps; this struct only names the
// fields the translation layer guarantees a stable shape for. Everything
// else stays in the raw map.
type Bug struct {
	ID              int      `json:"id" mapstructure:"id"`
	Alias           string   `json:"alias,omitempty" mapstructure:"alias"`
	Status          string   `json:"status" mapstructure:"status"`
	Resolution      string   `json:"resolution,omitempty" mapstructure:"resolution"`
	Summary         string   `json:"summary" mapstructure:"summary"`
	Product         string   `json:"product,omitempty" mapstructure:"product"`
	Component       string   `json:"component,omitempty" mapstructure:"component"`
	Components      []string `json:"components,omitempty" mapstructure:"components"`
	Keywords        string   `json:"keywords,omitempty" mapstructure:"keywords"`
	Whiteboard      string   `json:"whiteboard,omitempty" mapstructure:"whiteboard"`
	QAWhiteboard    string   `json:"qa_whiteboard,omitempty" mapstructure:"cf_qa_whiteboard"`
	DevelWhiteboard string   `json:"devel_whiteboard,omitempty" mapstructure:"cf_devel_whiteboard"`
	FixedIn         string   `json:"fixed_in,omitempty" mapstructure:"cf_fixed_in"`
	AssignedTo      string   `json:"assigned_to,omitempty" mapstructure:"assigned_to"`
	Creator         string   `json:"creator,omitempty" mapstructure:"creator"`
	QAContact       string   `json:"qa_contact,omitempty" mapstructure:"qa_contact"`
	CC              []string `json:"cc,omitempty" mapstructure:"cc"`
	Blocked         string   `json:"blocked,omitempty" mapstructure:"blocked"`
	BlockedBy       string   `json:"blockedby,omitempty" mapstructure:"blockedby"`
	DependsOn       []int    `json:"depends_on,omitempty" mapstructure:"depends_on"`
	Flags           string   `json:"flags,omitempty" mapstructure:"flags"`
	Groups          []Group  `json:"groups,omitempty" mapstructure:"groups"`
}

// Group is the legacy rich group shape, reconstructed by post-translation
// from the flat list of group names newer servers return.
type Group struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	IsOn        int    `json:"ison" mapstructure:"ison"`
}

// Flag is a single name/status pair as the server returns it, before
// post-translation flattens the list into a string.
type Flag struct {
	Name   string `json:"name" mapstructure:"name"`
	Status string `json:"status" mapstructure:"status"`
}

// QueryResult is what a search returns: the matching (post-translated)
// bug records plus the SQL the server generated, which is diagnostic
// passthrough only.
type QueryResult struct {
	Bugs []map[string]interface{} `json:"bugs"`
	SQL  string                   `json:"sql"`
}

// ComponentData describes a product component for the addComponent and
// editComponent RPCs. Product (by name or numeric id), Component and
// InitialOwner are always required; Description is required when adding.
// The remaining fields are optional.
type ComponentData struct {
	Product          string
	ProductID        int
	Component        string
	InitialOwner     string
	Description      string
	InitialQAContact string
	InitialCCList    []string
}

// Attachment is the payload for uploading a file to a bug. Data goes
// base64-encoded on the wire; the transport handles the encoding.
type Attachment struct {
	FileName    string
	Description string
	ContentType string
	Data        []byte
	IsPatch     bool
	IsPrivate   bool
	Comment     string
}
