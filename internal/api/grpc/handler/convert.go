package handler

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/hengadev/errsx"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/ayurdiet-server/internal/model"
)

const (
	keyID        = "id"
	keyOwnerID   = "ownerId"
	keyName      = "name"
	keyCreatedAt = "createdAt"
	keyUpdatedAt = "updatedAt"
	keyPatients  = "patients"
)

// document is a patient request decoded from a Struct.
type document struct {
	name   *string
	fields model.Fields
}

// decodeDocument reads name and attribute values from s. Keys listed in skip
// are ignored. Attribute names are not checked here; the service rejects
// unknown ones.
func decodeDocument(s *structpb.Struct, skip ...string) (document, error) {
	doc := document{fields: model.Fields{}}
	errs := make(errsx.Map)

	for key, v := range s.GetFields() {
		if slices.Contains(skip, key) {
			continue
		}

		if key == keyName {
			str, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				errs.Set(keyName, "must be a string")
				continue
			}
			name := str.StringValue
			doc.name = &name
			continue
		}

		value, err := decodeValue(v)
		if err != nil {
			errs.Set(key, err)
			continue
		}
		doc.fields[model.Field(key)] = value
	}

	if err := errs.AsError(); err != nil {
		return document{}, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}
	return doc, nil
}

func decodeValue(v *structpb.Value) (model.Value, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return model.Null(), nil
	case *structpb.Value_StringValue:
		return model.String(kind.StringValue), nil
	case *structpb.Value_NumberValue:
		return model.String(formatNumber(kind.NumberValue)), nil
	case *structpb.Value_ListValue:
		values := kind.ListValue.GetValues()
		items := make([]string, 0, len(values))
		for i, el := range values {
			switch elKind := el.GetKind().(type) {
			case *structpb.Value_NullValue:
				items = append(items, "")
			case *structpb.Value_StringValue:
				items = append(items, elKind.StringValue)
			case *structpb.Value_NumberValue:
				items = append(items, formatNumber(elKind.NumberValue))
			default:
				return model.Value{}, fmt.Errorf("element %d must be a string", i)
			}
		}
		return model.List(items...), nil
	default:
		return model.Value{}, fmt.Errorf("must be a string, a number, a list of strings or null")
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// requireID returns the non-empty id key of s.
func requireID(s *structpb.Struct) (string, error) {
	v, ok := s.GetFields()[keyID]
	if !ok {
		return "", fmt.Errorf("%w: id is required", model.ErrValidation)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || str.StringValue == "" {
		return "", fmt.Errorf("%w: id must be a non-empty string", model.ErrValidation)
	}
	return str.StringValue, nil
}

// patientDocument renders the plaintext view of a patient.
func patientDocument(p model.Patient) map[string]any {
	doc := map[string]any{
		keyID:        p.ID,
		keyOwnerID:   p.OwnerID,
		keyName:      p.Name,
		keyCreatedAt: formatTime(p.CreatedAt),
		keyUpdatedAt: formatTime(p.UpdatedAt),
	}
	for _, f := range model.SensitiveFields {
		v, ok := p.Fields[f.Name]
		if !ok {
			continue
		}
		doc[string(f.Name)] = encodeValue(v)
	}
	return doc
}

func encodeValue(v model.Value) any {
	switch v.Kind() {
	case model.KindString:
		return v.Str()
	case model.KindList:
		items := v.Items()
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// createdDocument is the response to a create call: identity and timestamps
// only, since the stored record is still encrypted.
func createdDocument(p model.Patient) map[string]any {
	return map[string]any{
		keyID:        p.ID,
		keyName:      p.Name,
		keyCreatedAt: formatTime(p.CreatedAt),
		keyUpdatedAt: formatTime(p.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
