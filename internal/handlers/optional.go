// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
)

// optionalString distinguishes an absent JSON field from an explicit
// null. PATCH bodies need the difference: a missing parent keeps the
// current one, an explicit null detaches to root.
type optionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when
// the field is present, so Set is always true here.
func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
