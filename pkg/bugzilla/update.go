package bugzilla

import (
	"fmt"
	"strings"

	bugzillav1 "github.com/openshift-eng/bugzilla-client/pkg/apis/bugzilla/v1"
	"github.com/openshift-eng/bugzilla-client/pkg/util"
)

// Fields the server stores as custom fields; updates must use the cf_
// name even though queries and callers use the bare one.
var customFields = []string{"fixed_in"}

// UpdateBugs applies the given field updates to one or more bugs in a
// single Bug.update call. Every other mutation funnels through here.
func (c *Client) UpdateBugs(ids []int, updates map[string]interface{}) (map[string]interface{}, error) {
	params := map[string]interface{}{"ids": ids}
	for key, value := range updates {
		if util.StrSliceContains(customFields, key) {
			key = "cf_" + key
		}
		params[key] = value
	}

	var result map[string]interface{}
	if err := c.transport.Call("Bug.update", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateBug is a convenience wrapper for single-bug updates.
func (c *Client) UpdateBug(id int, updates map[string]interface{}) (map[string]interface{}, error) {
	return c.UpdateBugs([]int{id}, updates)
}

// addCommentFields attaches a nested comment object to an update when
// comment text was given.
func addCommentFields(update map[string]interface{}, comment string, private bool) {
	if comment == "" {
		return
	}
	body := map[string]interface{}{"body": comment}
	if private {
		body["is_private"] = true
	}
	update["comment"] = body
}

// SetStatus sets the status of a bug, optionally attaching a comment.
func (c *Client) SetStatus(id int, status, comment string, private bool) (map[string]interface{}, error) {
	update := map[string]interface{}{"status": status}
	addCommentFields(update, comment, private)
	return c.UpdateBug(id, update)
}

// CloseBug closes a bug with the given resolution. A nonzero dupeOf
// forces the resolution to DUPLICATE and records the duplicate target;
// a nonempty fixedIn records the fixed-in version.
func (c *Client) CloseBug(id int, resolution string, dupeOf int, fixedIn, comment string, private bool) (map[string]interface{}, error) {
	update := map[string]interface{}{
		"bug_status": "CLOSED",
		"resolution": resolution,
	}
	if dupeOf != 0 {
		update["resolution"] = "DUPLICATE"
		update["dupe_of"] = dupeOf
	}
	if fixedIn != "" {
		update["fixed_in"] = fixedIn
	}
	addCommentFields(update, comment, private)
	return c.UpdateBug(id, update)
}

// AssigneeFields carries new assignment values for SetAssignee. Empty
// fields are left untouched on the bug.
type AssigneeFields struct {
	AssignedTo string
	Reporter   string
	QAContact  string
	Comment    string
}

// SetAssignee updates the assignment fields of a bug, skipping any empty
// values.
func (c *Client) SetAssignee(id int, fields AssigneeFields) (map[string]interface{}, error) {
	update := map[string]interface{}{}
	for key, value := range map[string]string{
		"assigned_to": fields.AssignedTo,
		"reporter":    fields.Reporter,
		"qa_contact":  fields.QAContact,
		"comment":     fields.Comment,
	} {
		if value != "" {
			update[key] = value
		}
	}
	return c.UpdateBug(id, update)
}

// UpdateDeps edits the blocks and depends_on lists of a bug. action is
// one of "add", "delete" or "set"; the server renamed delete to remove
// in 4.0, so delete is remapped on the way out.
func (c *Client) UpdateDeps(id int, blocked, dependsOn []int, action string) error {
	switch action {
	case "add", "set":
	case "delete":
		action = "remove"
	default:
		return &ValidationError{Field: "action", Reason: "must be 'add', 'set', or 'delete'"}
	}

	update := map[string]interface{}{
		"blocks":     map[string]interface{}{action: intList(blocked)},
		"depends_on": map[string]interface{}{action: intList(dependsOn)},
	}
	_, err := c.UpdateBug(id, update)
	return err
}

// UpdateCC edits the CC list of a bug. action is one of "add", "delete"
// or "overwrite"; as with deps, delete goes out as remove. The comment
// is accepted for API symmetry but this RPC does not carry one.
//
// Overwrite is not atomic: it fetches the current list, removes it, then
// adds the new one. A failure between the two calls leaves the bug with
// a partially updated CC list.
func (c *Client) UpdateCC(id int, ccList []string, action, comment string) error {
	switch action {
	case "add", "delete":
		if action == "delete" {
			action = "remove"
		}
		update := map[string]interface{}{
			"cc": map[string]interface{}{action: strList(ccList)},
		}
		_, err := c.UpdateBug(id, update)
		return err

	case "overwrite":
		bug, err := c.GetBug(id)
		if err != nil {
			return err
		}
		current, ok := bug["cc"]
		if !ok {
			return &ValidationError{Field: "cc", Reason: fmt.Sprintf("bug %d has no cc list", id)}
		}
		if err := c.UpdateCC(id, toStringList(current), "delete", ""); err != nil {
			return err
		}
		return c.UpdateCC(id, ccList, "add", "")

	default:
		return &ValidationError{Field: "action", Reason: "must be 'add', 'delete', or 'overwrite'"}
	}
}

// whiteboardField normalizes a whiteboard selector: bare variant names
// like "qa" or "devel" get the _whiteboard suffix appended.
func whiteboardField(which string) string {
	if !strings.HasSuffix(which, "_whiteboard") {
		return which + "_whiteboard"
	}
	return which
}

// UpdateWhiteboard edits one of the whiteboard fields of a bug. action
// is one of "overwrite", "append" or "prepend".
//
// The server only supports overwriting, so append and prepend fetch the
// current text first and concatenate with a single space. That costs an
// extra round trip and is not atomic with the update.
func (c *Client) UpdateWhiteboard(id int, text, which, action, comment string, private bool) error {
	field := whiteboardField(which)
	update := map[string]interface{}{}

	switch action {
	case "overwrite":
		update[field] = text
	case "append", "prepend":
		bug, err := c.GetBug(id)
		if err != nil {
			return err
		}
		current, ok := bug[field]
		if !ok {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("no such whiteboard on bug %d", id)}
		}
		existing := fmt.Sprint(current)
		if action == "prepend" {
			update[field] = text + " " + existing
		} else {
			update[field] = existing + " " + text
		}
	default:
		return &ValidationError{Field: "action", Reason: "must be 'overwrite', 'append', or 'prepend'"}
	}

	addCommentFields(update, comment, private)
	_, err := c.UpdateBug(id, update)
	return err
}

// AddComment adds the same comment to each of the given bugs and returns
// the ids of the new comments.
func (c *Client) AddComment(ids []int, comment string, private bool) ([]int, error) {
	commentIDs := make([]int, 0, len(ids))
	for _, id := range ids {
		params := map[string]interface{}{
			"id":         id,
			"comment":    comment,
			"is_private": private,
		}
		var result map[string]interface{}
		if err := c.transport.Call("Bug.add_comment", params, &result); err != nil {
			return commentIDs, err
		}
		if commentID, ok := toInt(result["id"]); ok {
			commentIDs = append(commentIDs, commentID)
		}
	}
	return commentIDs, nil
}

// UpdateFlags sets bug flags from name/value pairs like
// {"needinfo": "?", "fedora-cvs": "+"}. A "nomail" entry of 1 suppresses
// notification mail. This server dialect cannot target a requestee.
func (c *Client) UpdateFlags(id int, flags map[string]interface{}) error {
	var result interface{}
	return c.transport.Call("bugzilla.updateFlags", []interface{}{id, flags}, &result)
}

// AddAttachment uploads an attachment to a bug and returns the server's
// response.
func (c *Client) AddAttachment(id int, attachment bugzillav1.Attachment) (interface{}, error) {
	if attachment.FileName == "" {
		return nil, &ValidationError{Field: "filename", Reason: "mandatory field missing"}
	}
	if len(attachment.Data) == 0 {
		return nil, &ValidationError{Field: "data", Reason: "mandatory field missing"}
	}

	data := map[string]interface{}{
		"filename":    attachment.FileName,
		"description": attachment.Description,
		"data":        attachment.Data,
	}
	if attachment.ContentType != "" {
		data["contenttype"] = attachment.ContentType
	}
	if attachment.IsPatch {
		data["ispatch"] = 1
	}
	if attachment.IsPrivate {
		data["isprivate"] = 1
	}
	if attachment.Comment != "" {
		data["comment"] = attachment.Comment
	}

	var result interface{}
	if err := c.transport.Call("bugzilla.addAttachment", []interface{}{id, data}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdatePerms adds or removes the named groups on a user account. The
// legacy RPC carries the client credentials as trailing parameters.
func (c *Client) UpdatePerms(user, action string, groups []string) error {
	var result interface{}
	return c.transport.Call("bugzilla.updatePerms",
		[]interface{}{user, action, strList(groups), c.user, c.password}, &result)
}

// AddUser creates a user account.
func (c *Client) AddUser(email, name string) error {
	var result interface{}
	return c.transport.Call("bugzilla.addUser",
		[]interface{}{email, name, c.user, c.password}, &result)
}

// Required component fields, in the order validation reports them.
var (
	componentAddRequired  = []string{"product", "component", "initialowner", "description"}
	componentEditRequired = []string{"initialowner", "product", "component"}
)

// AddComponent creates a product component. Product, Component,
// InitialOwner and Description are required.
func (c *Client) AddComponent(data bugzillav1.ComponentData) error {
	params, err := c.componentParams(data, componentAddRequired)
	if err != nil {
		return err
	}
	var result interface{}
	return c.transport.Call("bugzilla.addComponent",
		[]interface{}{params, c.user, c.password}, &result)
}

// EditComponent modifies a product component. Product, Component and
// InitialOwner are required; Description is optional here.
func (c *Client) EditComponent(data bugzillav1.ComponentData) error {
	params, err := c.componentParams(data, componentEditRequired)
	if err != nil {
		return err
	}
	var result interface{}
	return c.transport.Call("bugzilla.editComponent",
		[]interface{}{params, c.user, c.password}, &result)
}

// componentParams validates the required fields, resolves a numeric
// product id to its display name, and builds the RPC payload. Validation
// runs before the resolution lookup so that bad input never reaches the
// wire.
func (c *Client) componentParams(data bugzillav1.ComponentData, required []string) (map[string]interface{}, error) {
	present := map[string]bool{
		"product":      data.Product != "" || data.ProductID != 0,
		"component":    data.Component != "",
		"initialowner": data.InitialOwner != "",
		"description":  data.Description != "",
	}
	for _, name := range required {
		if !present[name] {
			return nil, &ValidationError{Field: name, Reason: "mandatory field missing"}
		}
	}

	product := data.Product
	if product == "" {
		resolved, err := c.productIDToName(data.ProductID)
		if err != nil {
			return nil, err
		}
		product = resolved
	}

	params := map[string]interface{}{
		"product":      product,
		"component":    data.Component,
		"initialowner": data.InitialOwner,
	}
	if data.Description != "" {
		params["description"] = data.Description
	}
	if data.InitialQAContact != "" {
		params["initialqacontact"] = data.InitialQAContact
	}
	if len(data.InitialCCList) > 0 {
		params["initialcclist"] = data.InitialCCList
	}
	return params, nil
}

type productList struct {
	Products []productEntry `xmlrpc:"products"`
}

type productEntry struct {
	Name string `xmlrpc:"name"`
}

// productIDToName resolves a numeric product id to the display name the
// component RPCs expect.
func (c *Client) productIDToName(id int) (string, error) {
	params := map[string]interface{}{
		"ids":            []int{id},
		"include_fields": []string{"name"},
	}
	var result productList
	if err := c.transport.Call("Product.get", params, &result); err != nil {
		return "", err
	}
	if len(result.Products) == 0 {
		return "", &ValidationError{Field: "product", Reason: fmt.Sprintf("no product with id %d", id)}
	}
	return result.Products[0].Name, nil
}

func intList(in []int) []int {
	if in == nil {
		return []int{}
	}
	return in
}

func strList(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
