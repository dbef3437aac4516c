// Package redfish wraps the gofish client with raw resource fetching for
// the collector walk.
package redfish

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Resource is one fetched Redfish resource: its path and the undecoded
// JSON body. The collector re-emits payloads verbatim, so nothing is
// unmarshaled into structs along the way.
type Resource struct {
	Path string
	Body []byte
}

// Get evaluates a gjson path against the body.
func (r Resource) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Link returns the reference target of a link field, accepting both the
// standard `@odata.id` spelling and the older `href` one.
func (r Resource) Link(field string) string {
	if v := r.Get(field + ".@odata\\.id"); v.Exists() {
		return v.String()
	}

	return r.Get(field + ".href").String()
}

// Links returns the reference targets of an array-of-links field.
func (r Resource) Links(field string) []string {
	arr := r.Get(field)
	if !arr.IsArray() {
		return nil
	}

	var refs []string

	arr.ForEach(func(_, member gjson.Result) bool {
		ref := member.Get("@odata\\.id")
		if !ref.Exists() {
			ref = member.Get("href")
		}

		if ref.Exists() {
			refs = append(refs, ref.String())
		}

		return true
	})

	return refs
}

// Type returns the resource's `@odata.type`.
func (r Resource) Type() string {
	return r.Get("@odata\\.type").String()
}

// ID returns the resource's `Id` field.
func (r Resource) ID() string {
	return r.Get("Id").String()
}

// IsCollection reports whether the resource is a Redfish collection.
func (r Resource) IsCollection() bool {
	return strings.Contains(r.Type(), "Collection")
}

// Members returns the `@odata.id` of each collection member.
func (r Resource) Members() []string {
	return r.Links("Members")
}

// MemberCount returns `Members@odata.count`, falling back to the length
// of the Members array when the count field is absent.
func (r Resource) MemberCount() int {
	if v := r.Get("Members@odata\\.count"); v.Exists() {
		return int(v.Int())
	}

	return len(r.Members())
}
