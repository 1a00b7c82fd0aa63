package protocol

import "encoding/json"

// The LSP spec defines several "one of" wire shapes. Each Go type below
// models one such union with MarshalJSON/UnmarshalJSON so json/v2 (which
// recognizes the v1 Marshaler/Unmarshaler interfaces) serializes and
// parses the actual field that's set, rather than the Go struct shape.

func (v IntegerOrString) MarshalJSON() ([]byte, error) {
	switch {
	case v.Integer != nil:
		return json.Marshal(*v.Integer)
	case v.String != nil:
		return json.Marshal(*v.String)
	default:
		return []byte("null"), nil
	}
}

func (v *IntegerOrString) UnmarshalJSON(data []byte) error {
	var i int32
	if err := json.Unmarshal(data, &i); err == nil {
		v.Integer = &i
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v.String = &s
	return nil
}

func (v IntegerOrNullProcessId) MarshalJSON() ([]byte, error) {
	if v.Integer == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*v.Integer)
}

func (v *IntegerOrNullProcessId) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.Integer = nil
		return nil
	}
	var i int32
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	v.Integer = &i
	return nil
}

func (v BooleanOrSaveOptions) MarshalJSON() ([]byte, error) {
	if v.SaveOptions != nil {
		return json.Marshal(v.SaveOptions)
	}
	if v.Boolean != nil {
		return json.Marshal(*v.Boolean)
	}
	return []byte("null"), nil
}

func (v *BooleanOrSaveOptions) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		v.Boolean = &b
		return nil
	}
	var opts SaveOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}
	v.SaveOptions = &opts
	return nil
}

func (v TextDocumentSyncOptionsOrKind) MarshalJSON() ([]byte, error) {
	if v.Options != nil {
		return json.Marshal(v.Options)
	}
	if v.Kind != nil {
		return json.Marshal(*v.Kind)
	}
	return []byte("null"), nil
}

func (v *TextDocumentSyncOptionsOrKind) UnmarshalJSON(data []byte) error {
	var kind TextDocumentSyncKind
	if err := json.Unmarshal(data, &kind); err == nil {
		v.Kind = &kind
		return nil
	}
	var opts TextDocumentSyncOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}
	v.Options = &opts
	return nil
}

func (v BooleanOrCodeActionOptions) MarshalJSON() ([]byte, error) {
	if v.CodeActionOptions != nil {
		return json.Marshal(v.CodeActionOptions)
	}
	if v.Boolean != nil {
		return json.Marshal(*v.Boolean)
	}
	return []byte("null"), nil
}

func (v *BooleanOrCodeActionOptions) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		v.Boolean = &b
		return nil
	}
	var opts CodeActionOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}
	v.CodeActionOptions = &opts
	return nil
}

func (v BooleanOrDocumentFormattingOptions) MarshalJSON() ([]byte, error) {
	if v.Boolean != nil {
		return json.Marshal(*v.Boolean)
	}
	return []byte("null"), nil
}

func (v *BooleanOrDocumentFormattingOptions) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	v.Boolean = &b
	return nil
}

func (v DiagnosticOptionsOrRegistrationOptions) MarshalJSON() ([]byte, error) {
	if v.Options != nil {
		return json.Marshal(v.Options)
	}
	return []byte("null"), nil
}

func (v *DiagnosticOptionsOrRegistrationOptions) UnmarshalJSON(data []byte) error {
	var opts DiagnosticOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}
	v.Options = &opts
	return nil
}

func (v DocumentDiagnosticResponse) MarshalJSON() ([]byte, error) {
	if v.FullDocumentDiagnosticReport != nil {
		type wire struct {
			Kind string `json:"kind"`
			*RelatedFullDocumentDiagnosticReport
		}
		return json.Marshal(wire{Kind: "full", RelatedFullDocumentDiagnosticReport: v.FullDocumentDiagnosticReport})
	}
	if v.UnchangedDocumentDiagnosticReport != nil {
		type wire struct {
			Kind string `json:"kind"`
			*RelatedUnchangedDocumentDiagnosticReport
		}
		return json.Marshal(wire{Kind: "unchanged", RelatedUnchangedDocumentDiagnosticReport: v.UnchangedDocumentDiagnosticReport})
	}
	return []byte("null"), nil
}

func (v TextDocumentContentChangeEvent) MarshalJSON() ([]byte, error) {
	if v.Partial != nil {
		return json.Marshal(v.Partial)
	}
	if v.WholeDocument != nil {
		return json.Marshal(v.WholeDocument)
	}
	return []byte("null"), nil
}

func (v *TextDocumentContentChangeEvent) UnmarshalJSON(data []byte) error {
	var partial struct {
		Range *Range `json:"range"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return err
	}
	if partial.Range != nil {
		v.Partial = &struct {
			Range Range  `json:"range"`
			Text  string `json:"text"`
		}{Range: *partial.Range, Text: partial.Text}
		return nil
	}
	v.WholeDocument = &struct {
		Text string `json:"text"`
	}{Text: partial.Text}
	return nil
}
