package diagnostic

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ExportJSON renders diagnostics as a JSON array, one object per diagnostic;
// the CLI does not call it and has no JSON output flag. Built incrementally with
// sjson rather than encoding/json's struct tags, since Diagnostic's exported
// Token field would otherwise leak internal token-index detail the JSON
// output doesn't want.
func ExportJSON(diagnostics []Diagnostic) (string, error) {
	doc := "[]"
	for _, d := range diagnostics {
		obj, err := diagnosticObjectJSON(d)
		if err != nil {
			return "", err
		}
		if doc, err = sjson.SetRaw(doc, "-1", obj); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// diagnosticObjectJSON builds one diagnostic's JSON object in isolation so
// ExportJSON can append it whole, rather than mutating fields of an
// already-appended array element (sjson has no "last element" path).
func diagnosticObjectJSON(d Diagnostic) (string, error) {
	obj := "{}"
	var err error
	if obj, err = sjson.Set(obj, "severity", d.Severity.String()); err != nil {
		return "", err
	}
	if obj, err = sjson.Set(obj, "code", d.Code); err != nil {
		return "", err
	}
	if obj, err = sjson.Set(obj, "headline", d.Headline); err != nil {
		return "", err
	}
	if obj, err = sjson.Set(obj, "line", d.Token.Line); err != nil {
		return "", err
	}
	if obj, err = sjson.Set(obj, "column", d.Token.Column); err != nil {
		return "", err
	}
	if len(d.Notes) > 0 {
		if obj, err = sjson.Set(obj, "notes", d.Notes); err != nil {
			return "", err
		}
	}
	if d.Suggestion != "" {
		if obj, err = sjson.Set(obj, "suggestion", d.Suggestion); err != nil {
			return "", err
		}
	}
	return obj, nil
}

// CodesIn returns every distinct diagnostic code present in a JSON document
// produced by ExportJSON, using a gjson path query rather than unmarshalling
// the whole document, in first-seen order, without re-decoding every field.
func CodesIn(jsonDoc string) []int {
	var codes []int
	seen := map[int]bool{}
	for _, v := range gjson.Get(jsonDoc, "#.code").Array() {
		code := int(v.Int())
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}
