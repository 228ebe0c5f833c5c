package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rotisserie/eris"

	"kmfi/internal/scoring"
)

// SplitRecords reads either a single company object or an array of them and
// returns each record undecoded. Only input that is not a JSON object or
// array of objects fails here.
func SplitRecords(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read input")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, eris.New("ingest: empty input")
	}
	if data[0] == '{' {
		return []json.RawMessage{data}, nil
	}
	var many []json.RawMessage
	if err := json.Unmarshal(data, &many); err != nil {
		return nil, eris.Wrap(err, "ingest: split company records")
	}
	return many, nil
}

// RecordID recovers the company id from a raw record, or "" when the record
// carries no usable id.
func RecordID(raw []byte) string {
	var head struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return string(head.ID)
}

// DecodeCompany decodes one raw record. Malformed or wrongly typed fields
// come back as a *scoring.ValidationError.
func DecodeCompany(raw []byte) (CompanyRecord, error) {
	var rec CompanyRecord
	err := json.Unmarshal(raw, &rec)
	if err == nil {
		return rec, nil
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		field := te.Field
		if field == "" {
			field = "record"
		}
		return CompanyRecord{}, &scoring.ValidationError{Field: field, Value: te.Value, Reason: "expected " + te.Type.String()}
	}
	return CompanyRecord{}, &scoring.ValidationError{Field: "record", Reason: err.Error()}
}

// DecodeCompanies decodes every record it can. A record that fails to decode
// is reported against its id, or its position when the id is unreadable, and
// never affects the others.
func DecodeCompanies(r io.Reader) ([]CompanyRecord, []scoring.EntityError, error) {
	raws, err := SplitRecords(r)
	if err != nil {
		return nil, nil, err
	}
	recs := make([]CompanyRecord, 0, len(raws))
	var failed []scoring.EntityError
	for i, raw := range raws {
		rec, err := DecodeCompany(raw)
		if err != nil {
			id := RecordID(raw)
			if id == "" {
				id = fmt.Sprintf("record[%d]", i)
			}
			failed = append(failed, scoring.EntityError{CompanyID: id, Err: err})
			continue
		}
		recs = append(recs, rec)
	}
	return recs, failed, nil
}
