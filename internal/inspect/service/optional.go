package service

import "encoding/json"

// OptionalString carries a nullable JSON field whose absence and explicit
// null must stay distinguishable: Set is false when the field never appeared
// in the payload, true with a nil Value when the client sent null. A plain
// *string collapses both into nil and cannot express "clear this reference".
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ref returns the value as a nullable reference. Null and the empty string
// both read as nil, so a cleared foreign key lands as SQL NULL instead of an
// empty id.
func (o OptionalString) Ref() *string {
	if o.Value == nil || *o.Value == "" {
		return nil
	}
	return o.Value
}
